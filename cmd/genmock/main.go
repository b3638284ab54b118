// Command genmock writes a synthetic flood occurrence workbook shaped like the
// CGE São Paulo export: a "DATA, LOCAL, REFERENCIA, SENTIDO, INICIO, FIM,
// SITUACAO, SUB" sheet with real date cells and a few empty cells. Output is
// deterministic for a given seed.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/floods.xlsx -sheet Plan1 -seed 2016 -locations 40
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
)

var header = []any{"DATA", "LOCAL", "REFERENCIA", "SENTIDO", "INICIO", "FIM", "SITUACAO", "SUB"}

var streets = []string{
	"Av. do Estado", "Marginal Tietê", "Marginal Pinheiros", "Av. Aricanduva", "Av. Sumaré",
	"Av. Pompeia", "Av. Ricardo Jafet", "Av. dos Bandeirantes", "Av. Nove de Julho", "Av. 23 de Maio",
	"Av. Santo Amaro", "Av. Salim Farah Maluf", "Av. Inajar de Souza", "Av. Abraão de Morais",
	"Av. Sena Madureira", "Av. Washington Luís", "Av. Radial Leste", "Av. Cruzeiro do Sul",
	"Av. Francisco Morato", "Av. Professor Luiz Ignácio Anhaia Mello", "Rua Turiassu", "Av. Pacaembu",
	"Av. Anhaia Mello", "Av. Jacu-Pêssego", "Av. Corifeu de Azevedo Marques", "Av. Eliseu de Almeida",
	"Av. Mercúrio", "Av. Guarapiranga", "Av. Teotônio Vilela", "Av. Celso Garcia", "Rua Augusta",
	"Av. Rebouças", "Av. Brasil", "Av. Europa", "Av. Juscelino Kubitschek", "Av. Luís Carlos Berrini",
	"Av. Engenheiro Caetano Álvares", "Av. Cantareira", "Av. Tiradentes", "Av. Prestes Maia",
}

var (
	references = []string{"Viaduto", "Ponte", "Túnel", "Rua Lateral", "Praça", "Terminal"}
	directions = []string{"Centro/Bairro", "Bairro/Centro", "Ambos"}
	statuses   = []string{"transitável", "intransitável"}
	subs       = []string{"Sé", "Lapa", "Pinheiros", "Mooca", "Ipiranga", "Santana", "Butantã", "Penha"}
)

type options struct {
	out       string
	sheet     string
	seed      uint64
	locations int
	records   int
	firstYear int
	lastYear  int
	blankRate float64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var o options
	flag.StringVar(&o.out, "out", "data/mock/floods.xlsx", "output workbook path")
	flag.StringVar(&o.sheet, "sheet", "Plan1", "sheet name")
	flag.Uint64Var(&o.seed, "seed", 2016, "random seed")
	flag.IntVar(&o.locations, "locations", 25, "number of distinct locations (max 40)")
	flag.IntVar(&o.records, "records", 1500, "number of flood records")
	flag.IntVar(&o.firstYear, "first-year", 2007, "first year of records")
	flag.IntVar(&o.lastYear, "last-year", 2016, "last year of records")
	flag.Float64Var(&o.blankRate, "blank-rate", 0.02, "fraction of optional cells left empty")
	flag.Parse()

	if o.locations < 1 || o.locations > len(streets) {
		flag.Usage()
		return fmt.Errorf("-locations must be between 1 and %d", len(streets))
	}
	if o.lastYear < o.firstYear {
		return fmt.Errorf("-last-year %d is before -first-year %d", o.lastYear, o.firstYear)
	}

	rows := generate(o)
	if err := writeWorkbook(o.out, o.sheet, rows); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	log.Printf("wrote %d records for %d locations to %s (sheet %q)", len(rows), o.locations, o.out, o.sheet)
	return nil
}

// generate draws records with a Zipf distribution over locations so the
// ranking has a clear head and a long tail.
func generate(o options) [][]any {
	r := rand.New(rand.NewPCG(o.seed, o.seed^0x5eed))
	zipf := rand.NewZipf(r, 1.2, 2, uint64(o.locations-1))

	days := int(time.Date(o.lastYear+1, time.January, 1, 0, 0, 0, 0, time.UTC).
		Sub(time.Date(o.firstYear, time.January, 1, 0, 0, 0, 0, time.UTC)).Hours() / 24)
	origin := time.Date(o.firstYear, time.January, 1, 0, 0, 0, 0, time.UTC)

	rows := make([][]any, 0, o.records)
	for range o.records {
		date := origin.AddDate(0, 0, r.IntN(days))
		start := time.Duration(r.IntN(24*60)) * time.Minute
		end := start + time.Duration(30+r.IntN(240))*time.Minute

		row := []any{
			date,
			streets[zipf.Uint64()],
			pick(r, references),
			pick(r, directions),
			clock(start),
			clock(end),
			pick(r, statuses),
			pick(r, subs),
		}
		// DATE and LOCAL stay populated; the rest may be blank like the real export.
		for i := 2; i < len(row); i++ {
			if r.Float64() < o.blankRate {
				row[i] = nil
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func pick(r *rand.Rand, values []string) string {
	return values[r.IntN(len(values))]
}

func clock(d time.Duration) string {
	d %= 24 * time.Hour
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

func writeWorkbook(path, sheet string, rows [][]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return err
	}
	if err := f.SetColStyle(sheet, "A", dateStyle); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return f.SaveAs(path)
}
