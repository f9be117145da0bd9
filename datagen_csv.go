//go:build datagen_csv
// +build datagen_csv

package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/go-faker/faker/v4"
)

// Gera um arquivo fonte de ledigingen no formato esperado pelo import,
// para testes de carga e fixtures locais.

var containerSoorten = []string{"gft", "groen", "rest", "restafval", "grof"}

type subject struct {
	id   string
	bsn  string
	name string
}

type object struct {
	id      string
	address string
}

type container struct {
	id         string
	soort      string
	collective string
	keyNumber  string
}

func main() {
	rand.Seed(time.Now().UnixNano())

	numSubjects := flag.Int("subjects", 100, "Número de klanten")
	numObjects := flag.Int("objects", 50, "Número de locais")
	numContainers := flag.Int("containers", 200, "Número de containers")
	numRows := flag.Int("rows", 10_000, "Número de ledigingen")
	skipPerc := flag.Float64("skip-perc", 2.0, "Percentual de linhas com BSN/LEDIGINGSMOMENT vazio")
	out := flag.String("out", "ledigingen.csv", "Arquivo de saída")
	flag.Parse()

	subjects := make([]subject, *numSubjects)
	for i := range subjects {
		subjects[i] = subject{
			id:   fmt.Sprintf("S%06d", i+1),
			bsn:  fmt.Sprintf("%09d", rand.Intn(900000000)+100000000),
			name: faker.Name(),
		}
	}

	objects := make([]object, *numObjects)
	for i := range objects {
		objects[i] = object{
			id:      fmt.Sprintf("O%06d", i+1),
			address: fmt.Sprintf("%s %d", faker.LastName(), rand.Intn(200)+1),
		}
	}

	containers := make([]container, *numContainers)
	for i := range containers {
		collective := "N"
		keyNumber := ""
		if rand.Float64() < 0.3 {
			collective = "J"
			keyNumber = fmt.Sprintf("K%04d", rand.Intn(10000))
		}
		containers[i] = container{
			id:         fmt.Sprintf("C%06d", i+1),
			soort:      containerSoorten[rand.Intn(len(containerSoorten))],
			collective: collective,
			keyNumber:  keyNumber,
		}
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'

	header := []string{
		"SUBJECTID", "BSN", "SUBJECTNAAM",
		"OBJECTID", "OBJECTADRES",
		"CONTAINERID", "SLEUTELNUMMER", "VERZAMELCONTAINER_J_N", "CONTAINERSOORT",
		"LEDIGINGID", "GEWICHT_ONVERDEELD", "GEWICHT_VERDEELD", "LEDIGINGSMOMENT",
	}
	if err := w.Write(header); err != nil {
		log.Fatalf("Failed to write header: %v", err)
	}

	start := time.Now().UTC().AddDate(-1, 0, 0)
	for i := 0; i < *numRows; i++ {
		s := subjects[rand.Intn(len(subjects))]
		o := objects[rand.Intn(len(objects))]
		c := containers[rand.Intn(len(containers))]

		bsn := s.bsn
		moment := start.Add(time.Duration(rand.Int63n(int64(365 * 24 * time.Hour)))).Format("2006-01-02 15:04:05")

		// Linhas incompletas de propósito, elas devem ser puladas.
		if rand.Float64() < *skipPerc/100 {
			if rand.Intn(2) == 0 {
				bsn = ""
			} else {
				moment = ""
			}
		}

		weight := float64(rand.Intn(500)) / 10
		row := []string{
			s.id, bsn, s.name,
			o.id, o.address,
			c.id, c.keyNumber, c.collective, c.soort,
			fmt.Sprintf("L%08d", i+1),
			fmt.Sprintf("%.1f", weight),
			fmt.Sprintf("%.1f", weight),
			moment,
		}
		if err := w.Write(row); err != nil {
			log.Fatalf("Failed to write row: %v", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("Failed to flush: %v", err)
	}

	log.Printf("Wrote %d rows to %s", *numRows, *out)
}
