package kbqa

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadRankList reads a static relation pool from a tab-separated file. The
// first column is the relation id; remaining columns are ignored.
func LoadRankList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read rank list: %w", err)
	}
	defer f.Close()

	var rels []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rels = append(rels, strings.SplitN(line, "\t", 2)[0])
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan rank list: %w", err)
	}
	return rels, nil
}
