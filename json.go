package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// / InputStats is the machine-readable form of the stats tool output.
type InputStats struct {
	Input         string `json:"input"`
	Bytes         int    `json:"bytes"`
	Lines         int    `json:"lines"`
	BlankLines    int    `json:"blank_lines"`
	LineBytes     int    `json:"line_bytes"`
	DistinctLines int    `json:"distinct_lines"`
	RepeatedLines int    `json:"repeated_lines"`
	LongestLine   int    `json:"longest_line"`
	Hash          string `json:"hash"`
	Rapidhash     string `json:"rapidhash"`
}

func PrintJSONObject(val interface{}) int {
	out, err := json.MarshalIndent(val, "", "  ")
	if err != nil {
		fmt.Println("JSON encoding failed:", err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "%s\n", string(out))
	return 0
}
