package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/encodium/bpe/cache"
	"github.com/encodium/bpe/envconfig"
	"github.com/encodium/bpe/logutil"
	"github.com/encodium/bpe/tokenizer"
	"github.com/encodium/bpe/vocab"
)

func loadTokenizer(dir, policy string) (*tokenizer.Tokenizer, error) {
	v, err := vocab.LoadFiles(dir)
	if err != nil {
		return nil, err
	}

	p, err := tokenizer.ParsePolicy(policy)
	if err != nil {
		return nil, err
	}

	var opts []tokenizer.Option
	if n := envconfig.CacheSize(); n > 0 {
		c, err := cache.NewLRU(n)
		if err != nil {
			return nil, err
		}
		opts = append(opts, tokenizer.WithCache(c))
	}

	return tokenizer.New(v, p, opts...)
}

// readText returns the joined args, or stdin when no args are given.
func readText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func NewCLI() *cobra.Command {
	slog.SetDefault(logutil.NewLogger(os.Stderr, envconfig.LogLevel()))

	rootCmd := &cobra.Command{
		Use:           "bpe",
		Short:         "Byte-level BPE tokenizer",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	var dir string
	var policy string
	rootCmd.PersistentFlags().StringVar(&dir, "vocab", ".", "directory containing encoder.json and vocab.bpe")
	rootCmd.PersistentFlags().StringVar(&policy, "errors", "replace", "utf-8 error policy: strict, replace, ignore, backslashreplace, xmlcharrefreplace")

	encodeCmd := &cobra.Command{
		Use:   "encode [TEXT]",
		Short: "Encode text to token ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTokenizer(dir, policy)
			if err != nil {
				return err
			}

			text, err := readText(cmd, args)
			if err != nil {
				return err
			}

			ids, err := t.Encode(text)
			if err != nil {
				return err
			}

			out := make([]string, len(ids))
			for i, id := range ids {
				out[i] = strconv.FormatInt(int64(id), 10)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(out, " "))
			return nil
		},
	}

	decodeCmd := &cobra.Command{
		Use:   "decode ID...",
		Short: "Decode token ids to text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTokenizer(dir, policy)
			if err != nil {
				return err
			}

			ids := make([]int32, len(args))
			for i, arg := range args {
				n, err := strconv.ParseInt(arg, 10, 32)
				if err != nil {
					return fmt.Errorf("invalid token id %q: %w", arg, err)
				}
				ids[i] = int32(n)
			}

			text, err := t.Decode(ids)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show vocabulary and merge table statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := vocab.LoadFiles(dir)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "tokens:\t%d\n", v.Len())
			fmt.Fprintf(cmd.OutOrStdout(), "merges:\t%d\n", len(v.Merges()))
			return nil
		},
	}

	rootCmd.AddCommand(encodeCmd, decodeCmd, inspectCmd)
	return rootCmd
}

func main() {
	if err := NewCLI().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
