package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"github.com/alecthomas/kong"
	"github.com/xor-shift/randserver/rng"
	"log"
	"os"
	"strconv"
	"text/template"
)

// Regenerates a deterministic sample stream offline from a seed. Any
// stream the draw service handed out can be reproduced here by feeding
// in the same seed, variant, and draw parameters.
func main() {
	var err error

	args := struct {
		Seed               string  `name:"seed" short:"s" help:"64-bit seed, hex" required:""`
		Variant            string  `name:"variant" short:"v" enum:"starstar,plus" default:"starstar" help:"Output variant"`
		Kind               string  `name:"kind" short:"k" enum:"raw,uniform,exponential,geometric" default:"raw" help:"What to draw"`
		Count              uint    `name:"count" short:"n" default:"1000" help:"Number of draws"`
		Low                float64 `name:"low" default:"0" help:"(uniform) lower bound"`
		High               float64 `name:"high" default:"1" help:"(uniform) upper bound"`
		Mean               float64 `name:"mean" default:"1" help:"(exponential) mean"`
		P                  float64 `name:"p" default:"0.5" help:"(geometric) success probability"`
		Out                string  `name:"out" short:"o" default:"samples_{{.Seed}}.{{.Format}}" help:"File to output to (templated)"`
		Format             string  `name:"format" short:"f" enum:"csv,json" default:"csv" help:"Data format"`
		ExportColumnTitles bool    `name:"export_column_titles" negatable:"" default:"true" help:"(applicable only to CSV outputs) whether to include a column title row"`
	}{}

	_ = kong.Parse(&args)

	var seed uint64
	if seed, err = strconv.ParseUint(args.Seed, 16, 64); err != nil {
		log.Fatalf("bad seed \"%s\": %s", args.Seed, err)
	}

	variant := rng.VariantStarStar
	if args.Variant == "plus" {
		variant = rng.VariantPlus
	}

	gen := rng.NewXoshiro256FromSeed(variant, seed)

	type Row struct {
		Index uint

		Raw  uint64
		Real float64
		Int  int
	}

	rows := make([]Row, args.Count)
	for i := uint(0); i < args.Count; i++ {
		row := Row{Index: i}

		switch args.Kind {
		case "raw":
			row.Raw = gen.Next()
		case "uniform":
			if row.Real, err = gen.Uniform(args.Low, args.High); err != nil {
				log.Fatalf("uniform draw failed: %s", err)
			}
		case "exponential":
			if row.Real, err = gen.Exponential(args.Mean); err != nil {
				log.Fatalf("exponential draw failed: %s", err)
			}
		case "geometric":
			if row.Int, err = gen.Geometric(args.P); err != nil {
				log.Fatalf("geometric draw failed: %s", err)
			}
		}

		rows[i] = row
	}

	var outFileNameTemplate *template.Template
	if outFileNameTemplate, err = template.New("").Parse(args.Out); err != nil {
		log.Fatalf("error while creating the output filename template: %s", err)
	}

	outFileNameBuf := bytes.Buffer{}

	templateArguments := struct {
		Seed    string
		Variant string
		Kind    string
		Format  string
	}{
		Seed:    args.Seed,
		Variant: args.Variant,
		Kind:    args.Kind,
		Format:  args.Format,
	}

	if err = outFileNameTemplate.Execute(&outFileNameBuf, templateArguments); err != nil {
		log.Fatalf("error while executing the output filename template: %s", err)
	}

	outFileName := outFileNameBuf.String()

	var outFile *os.File
	if outFile, err = os.Create(outFileName); err != nil {
		log.Fatalf("error while creating the output file \"%s\": %s", outFileName, err)
	}

	defer outFile.Close()

	if args.Format == "json" {
		values := make([]interface{}, len(rows))
		for i, row := range rows {
			switch args.Kind {
			case "raw":
				values[i] = row.Raw
			case "uniform", "exponential":
				values[i] = row.Real
			case "geometric":
				values[i] = row.Int
			}
		}

		encoder := json.NewEncoder(outFile)
		if err = encoder.Encode(values); err != nil {
			log.Fatalf("error while writing json output: %s", err)
		}

		return
	}

	csvWriter := csv.NewWriter(outFile)

	if args.ExportColumnTitles {
		_ = csvWriter.Write([]string{"Index", "Value"})
	}

	for _, row := range rows {
		var value string

		switch args.Kind {
		case "raw":
			value = strconv.FormatUint(row.Raw, 10)
		case "uniform", "exponential":
			value = fmt.Sprintf("%g", row.Real)
		case "geometric":
			value = strconv.Itoa(row.Int)
		}

		_ = csvWriter.Write([]string{fmt.Sprintf("%d", row.Index), value})
	}

	csvWriter.Flush()
}
