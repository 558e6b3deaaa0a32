// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// readreport prints stored run reports as JSON.
//
//	readreport -data-dir data -q 'kind:visual status:failed'
//	readreport -data-dir data <id> [<id>...]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/my-matchgame/gamecheck/backend"
	"github.com/my-matchgame/gamecheck/backend/search"
)

var (
	dataDir = flag.String("data-dir", "data", "Directory holding run reports")
	query   = flag.String("q", "", "Filter, e.g. 'kind:load status:failed date:>=2026-01-01'")
	limit   = flag.Int("limit", 0, "Maximum number of reports to print (0 for all)")
	full    = flag.Bool("full", false, "Print whole reports instead of metadata when listing")
)

func main() {
	flag.Parse()
	store, err := backend.OpenStorage(*dataDir)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	reports := backend.NewReportStore(*dataDir, store)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if ids := flag.Args(); len(ids) > 0 {
		for _, id := range ids {
			r, err := reports.LoadReport(id)
			if err != nil {
				log.Printf("%s: %v", id, err)
				continue
			}
			fmt.Printf("=========== %s ===========\n", id)
			if err := enc.Encode(r); err != nil {
				log.Printf("JSON: %s: %v", id, err)
			}
		}
		return
	}

	items, _, err := reports.ListReports(search.Parse(*query), *limit, "")
	if err != nil {
		log.Fatalf("Failed to list reports: %v", err)
	}
	for _, m := range items {
		var obj any = m
		if *full {
			r, err := reports.LoadReport(m.ID)
			if err != nil {
				log.Printf("%s: %v", m.ID, err)
				continue
			}
			obj = r
		}
		if err := enc.Encode(obj); err != nil {
			log.Printf("JSON: %s: %v", m.ID, err)
		}
	}
}
