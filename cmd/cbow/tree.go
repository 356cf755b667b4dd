package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vecforge/wordembed"
	"github.com/vecforge/wordembed/word2vec"
)

func newTreeCmd(v *viper.Viper) *cobra.Command {
	var maxVocab int
	cmd := &cobra.Command{
		Use:   "tree VOCAB_FILE",
		Short: "Build the Huffman tree of a vocabulary and print every path",
		Long: "Reads a vocabulary file with one \"word count\" pair per line and prints, " +
			"for each word, its count, its Huffman code and the internal nodes on its path.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			counts, err := readVocab(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			if maxVocab > 0 {
				counts.Keep(maxVocab)
			}
			return printTree(cmd.OutOrStdout(), counts)
		},
	}
	cmd.Flags().IntVar(&maxVocab, "max-vocab", 0,
		"keep only the most common words (0 keeps all)")
	return cmd
}

// readVocab parses "word count" lines.
// Blank lines are ignored and repeated words are summed.
func readVocab(r io.Reader) (wordembed.TokenCounts, error) {
	counts := wordembed.TokenCounts{}
	scanner := bufio.NewScanner(r)
	var lineNum int
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"word count\"", lineNum)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("line %d: bad count %q", lineNum, fields[1])
		}
		counts.Add(fields[0], n)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func printTree(w io.Writer, counts wordembed.TokenCounts) error {
	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	tokens := wordembed.NewTokenSet(words)
	tree, err := word2vec.BuildTree(counts.Frequencies(tokens))
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"words":     tree.NumWords(),
		"nodes":     tree.NumNodes(),
		"max_depth": tree.MaxDepth(),
	}).Info("built Huffman tree")

	out := bufio.NewWriter(w)
	for id, word := range tokens {
		var code strings.Builder
		nodes := make([]string, 0, len(tree.Path(id)))
		for _, b := range tree.Path(id) {
			code.WriteByte('0' + b.Code)
			nodes = append(nodes, strconv.Itoa(b.Node))
		}
		fmt.Fprintf(out, "%s\t%d\t%s\t%s\n", word, counts[word], code.String(),
			strings.Join(nodes, ","))
	}
	return out.Flush()
}
