package importer

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

// ErrArchive é um archive com zero ou mais de um arquivo de dados.
var ErrArchive = errors.New("archive must contain exactly one data file")

// Fetcher baixa uma fonte remota para um writer local. A mecânica do
// transporte (FTPS) mora em infra; o pipeline só enxerga bytes.
type Fetcher interface {
	Fetch(ctx context.Context, remotePath string, dst io.Writer) error
}

// StagingArea é um diretório temporário de permissão restrita onde a
// fonte remota é baixada e, se preciso, descompactada. A limpeza roda
// em todos os caminhos de saída: retorno normal, erro e SIGINT/SIGTERM
// (o sinal é re-emitido com a disposição default depois da limpeza,
// então o processo ainda morre pelo sinal).
type StagingArea struct {
	dir       string
	sigCh     chan os.Signal
	closeOnce sync.Once
}

func NewStagingArea() (*StagingArea, error) {
	dir, err := os.MkdirTemp("", "afval-import-*")
	if err != nil {
		return nil, fmt.Errorf("StagingArea - failed to create temp dir: %w", err)
	}

	if err := os.Chmod(dir, 0o700); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("StagingArea - failed to restrict temp dir permissions: %w", err)
	}

	sa := &StagingArea{
		dir:   dir,
		sigCh: make(chan os.Signal, 1),
	}

	signal.Notify(sa.sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig, ok := <-sa.sigCh
		if !ok {
			return
		}

		sa.Close()

		// re-raise com a disposição default preservada
		signal.Reset(sig)
		if s, isSyscall := sig.(syscall.Signal); isSyscall {
			syscall.Kill(os.Getpid(), s)
		}
	}()

	return sa, nil
}

func (sa *StagingArea) Dir() string {
	return sa.dir
}

// CreateFile cria um arquivo 0600 dentro da staging area.
func (sa *StagingArea) CreateFile(name string) (*os.File, error) {
	path := filepath.Join(sa.dir, filepath.Base(name))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("StagingArea.CreateFile - %w", err)
	}

	return f, nil
}

// Close remove a staging area. Idempotente.
func (sa *StagingArea) Close() {
	sa.closeOnce.Do(func() {
		signal.Stop(sa.sigCh)
		close(sa.sigCh)
		os.RemoveAll(sa.dir)
	})
}

// FetchSource baixa remotePath para dentro da staging area e retorna o
// caminho local, já extraído quando a fonte é um .zip.
func (sa *StagingArea) FetchSource(ctx context.Context, fetcher Fetcher, remotePath string) (string, error) {
	dst, err := sa.CreateFile(remotePath)
	if err != nil {
		return "", err
	}

	if err := fetcher.Fetch(ctx, remotePath, dst); err != nil {
		dst.Close()
		return "", fmt.Errorf("StagingArea.FetchSource - download failed: %w", err)
	}

	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("StagingArea.FetchSource - %w", err)
	}

	localPath := dst.Name()
	if strings.EqualFold(filepath.Ext(localPath), ".zip") {
		return sa.ExtractArchive(localPath)
	}

	return localPath, nil
}

// ExtractArchive extrai o único arquivo de dados de um zip para a
// staging area. Zero ou vários arquivos é erro duro.
func (sa *StagingArea) ExtractArchive(zipPath string) (string, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", fmt.Errorf("StagingArea.ExtractArchive - failed to open archive: %w", err)
	}
	defer reader.Close()

	var dataFiles []*zip.File
	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		dataFiles = append(dataFiles, f)
	}

	if len(dataFiles) != 1 {
		return "", fmt.Errorf("%w: found %d", ErrArchive, len(dataFiles))
	}

	src, err := dataFiles[0].Open()
	if err != nil {
		return "", fmt.Errorf("StagingArea.ExtractArchive - %w", err)
	}
	defer src.Close()

	dst, err := sa.CreateFile(dataFiles[0].Name)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("StagingArea.ExtractArchive - failed to extract %s: %w", dataFiles[0].Name, err)
	}

	return dst.Name(), nil
}
