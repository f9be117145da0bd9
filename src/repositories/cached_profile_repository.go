package repositories

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"afvalprofiel/src/domain"
	"afvalprofiel/src/domain/entities"
	"afvalprofiel/src/infra/redis"
)

// registryKey junta todas as chaves de cache de profiel. Como o import
// troca o dataset inteiro, a invalidação é sempre global.
const profileRegistryKey = "registry:afval:profiles"

// CachedProfileRepository decora o ProfileQueryRepository com cache no
// Redis. Com redisClient nil vira pass-through.
type CachedProfileRepository struct {
	profileQueryRepository *ProfileQueryRepository
	redisClient            *redis.RedisClient
}

// CacheableProfileData é o que vai para o cache: as quatro consultas de
// uma requisição de profiel.
type CacheableProfileData struct {
	Citizen    entities.Citizen               `json:"citizen"`
	Emptyings  []domain.EmptyingWithWasteType `json:"emptyings"`
	Containers []domain.ContainerWithWeight   `json:"containers"`
	Locations  []domain.LocationWithWeight    `json:"locations"`
}

func NewCachedProfileRepository(
	profileQueryRepository *ProfileQueryRepository,
	redisClient *redis.RedisClient,
) *CachedProfileRepository {
	return &CachedProfileRepository{
		profileQueryRepository: profileQueryRepository,
		redisClient:            redisClient,
	}
}

func (r *CachedProfileRepository) QueryProfileData(ctx context.Context, nationalID string, filter domain.ProfileFilter) (*CacheableProfileData, error) {
	if r.redisClient == nil {
		return r.queryFromPostgres(ctx, nationalID, filter)
	}

	cacheKey := r.generateCacheKey(nationalID, filter)

	cached, found, err := r.getFromCache(ctx, cacheKey)
	if found && err == nil {
		log.Printf("Cache HIT for key: %s", cacheKey)
		return cached, nil
	}
	if err != nil {
		// Erro de cache não derruba a consulta, segue pro PostgreSQL
		log.Printf("Cache error for key %s: %v", cacheKey, err)
	}

	data, err := r.queryFromPostgres(ctx, nationalID, filter)
	if err != nil {
		return nil, err
	}

	go func() {
		ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		r.setInCache(ctxWithTimeout, cacheKey, data)
	}()

	return data, nil
}

// InvalidateAll apaga todo cache de profiel. Chamado depois de um
// import bem-sucedido: o dataset inteiro mudou.
func (r *CachedProfileRepository) InvalidateAll(ctx context.Context) error {
	if r.redisClient == nil {
		return nil
	}

	cacheKeys, err := r.redisClient.GetSetMembers(ctx, profileRegistryKey)
	if err != nil {
		return fmt.Errorf("CachedProfileRepository.InvalidateAll - failed to read registry: %w", err)
	}

	keysToDelete := append(cacheKeys, profileRegistryKey)
	log.Printf("Invalidating %d profile cache keys", len(keysToDelete))

	return r.redisClient.DeleteKeys(ctx, keysToDelete)
}

func (r *CachedProfileRepository) queryFromPostgres(ctx context.Context, nationalID string, filter domain.ProfileFilter) (*CacheableProfileData, error) {
	citizen, err := r.profileQueryRepository.GetCitizenByNationalID(ctx, nationalID)
	if err != nil {
		return nil, err
	}

	emptyings, err := r.profileQueryRepository.ListEmptyings(ctx, citizen.ID, filter)
	if err != nil {
		return nil, err
	}

	containers, err := r.profileQueryRepository.ListContainersWithWeights(ctx, citizen.ID, filter)
	if err != nil {
		return nil, err
	}

	locations, err := r.profileQueryRepository.ListLocationsWithWeights(ctx, citizen.ID, filter)
	if err != nil {
		return nil, err
	}

	return &CacheableProfileData{
		Citizen:    citizen,
		Emptyings:  emptyings,
		Containers: containers,
		Locations:  locations,
	}, nil
}

func (r *CachedProfileRepository) generateCacheKey(nationalID string, filter domain.ProfileFilter) string {
	addresses := append([]string(nil), filter.Addresses...)
	sort.Strings(addresses)

	start, end := "", ""
	if filter.StartDate != nil {
		start = filter.StartDate.Format("2006-01-02")
	}
	if filter.EndDate != nil {
		end = filter.EndDate.Format("2006-01-02")
	}

	keyData := fmt.Sprintf("bsn:%s:type:%s:addr:%s:start:%s:end:%s",
		nationalID,
		filter.WasteType,
		strings.Join(addresses, "|"),
		start,
		end,
	)

	hash := md5.Sum([]byte(keyData))
	return fmt.Sprintf("afval:profile:%x", hash)
}

func (r *CachedProfileRepository) getFromCache(ctx context.Context, cacheKey string) (*CacheableProfileData, bool, error) {
	cachedJSON, found, err := r.redisClient.GetKey(ctx, cacheKey)
	if !found || err != nil {
		return nil, found, err
	}

	var data CacheableProfileData
	if err := json.Unmarshal([]byte(cachedJSON), &data); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached profile: %w", err)
	}

	return &data, true, nil
}

func (r *CachedProfileRepository) setInCache(ctx context.Context, cacheKey string, data *CacheableProfileData) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		log.Printf("Failed to marshal profile cache for key %s: %v", cacheKey, err)
		return
	}

	if err := r.redisClient.SetWithRegistry(ctx, cacheKey, string(dataJSON), []string{profileRegistryKey}); err != nil {
		log.Printf("Failed to set profile cache for key %s: %v", cacheKey, err)
		return
	}

	log.Printf("Cache SET for key: %s", cacheKey)
}
