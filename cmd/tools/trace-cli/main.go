package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/annel0/genesys/internal/tracelog"
)

func main() {
	var (
		file    = flag.String("file", "trace.jsonl.zst", "Файл трассы .jsonl.zst")
		command = flag.String("cmd", "summary", "Command: summary, dump")
		from    = flag.Uint64("from", 0, "Первый тик для dump")
		limit   = flag.Int("limit", 100, "Maximum number of records for dump")
	)
	flag.Parse()

	records, err := tracelog.ReadAll(*file)
	if err != nil {
		log.Fatalf("Ошибка чтения трассы: %v", err)
	}

	switch *command {
	case "summary":
		printSummary(records)
	case "dump":
		dump(records, *from, *limit)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", *command)
		flag.Usage()
		os.Exit(2)
	}
}

func printSummary(records []tracelog.Record) {
	if len(records) == 0 {
		fmt.Println("Трасса пуста")
		return
	}

	var (
		walking     int
		distance    float64
		elapsed     float64
		transitions int
	)
	for i, r := range records {
		if r.Walking {
			walking++
		}
		distance += math.Sqrt(r.Delta[0]*r.Delta[0] + r.Delta[1]*r.Delta[1] + r.Delta[2]*r.Delta[2])
		elapsed += r.DT
		if i > 0 && records[i-1].Animation != r.Animation {
			transitions++
		}
	}

	fmt.Printf("Тиков:            %d (%d..%d)\n", len(records), records[0].Tick, records[len(records)-1].Tick)
	fmt.Printf("Время:            %.2fс\n", elapsed)
	fmt.Printf("В движении:       %d (%.1f%%)\n", walking, 100*float64(walking)/float64(len(records)))
	fmt.Printf("Пройдено:         %.2f\n", distance)
	fmt.Printf("Смен анимации:    %d\n", transitions)
}

func dump(records []tracelog.Record, from uint64, limit int) {
	enc := json.NewEncoder(os.Stdout)
	printed := 0
	for _, r := range records {
		if r.Tick < from {
			continue
		}
		if printed >= limit {
			break
		}
		if err := enc.Encode(r); err != nil {
			log.Fatalf("Ошибка вывода: %v", err)
		}
		printed++
	}
}
