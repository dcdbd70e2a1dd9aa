package vocab

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// LoadFiles reads a GPT-2 style vocabulary directory: encoder.json maps
// token strings to ids, vocab.bpe lists one merge rule per line in rank
// order after a "#version" header. The two files are independent and are
// read concurrently.
func LoadFiles(dir string) (*Vocabulary, error) {
	var ids map[string]int32
	var merges []MergePair

	var g errgroup.Group
	g.Go(func() error {
		data, err := os.ReadFile(filepath.Join(dir, "encoder.json"))
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &ids); err != nil {
			return fmt.Errorf("vocab: parse encoder.json: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		merges, err = loadMerges(filepath.Join(dir, "vocab.bpe"))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return New(ids, merges)
}

func loadMerges(path string) ([]MergePair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var merges []MergePair
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}
		first, second, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrBadMerge, line)
		}
		merges = append(merges, MergePair{First: first, Second: second})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("vocab: read %s: %w", filepath.Base(path), err)
	}
	return merges, nil
}
