package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vecforge/wordembed/word2vec"
)

func newBenchCmd(v *viper.Viper) *cobra.Command {
	var vocab, words int
	var zipf float64
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare Hogwild and atomic training throughput on a synthetic corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if vocab < 2 || words < 1 || zipf <= 1 {
				return fmt.Errorf("need vocab >= 2, words >= 1 and zipf > 1")
			}
			cfg, err := sessionConfig(v)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			reg := prometheus.NewRegistry()
			if metricsAddr != "" {
				srv := &http.Server{
					Addr:    metricsAddr,
					Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
				}
				go func() {
					if err := srv.ListenAndServe(); err != http.ErrServerClosed {
						logrus.WithError(err).Error("metrics server failed")
					}
				}()
				defer srv.Close()
			}

			corpus, freqs := zipfCorpus(rand.New(rand.NewSource(cfg.Seed)), vocab, words, zipf)
			metrics := word2vec.NewMetrics(reg)
			for _, atomicMode := range []bool{false, true} {
				cfg.Atomic = atomicMode
				rate, err := benchmarkSession(ctx, cfg, corpus, freqs, metrics)
				if err != nil {
					return err
				}
				mode := "hogwild"
				if atomicMode {
					mode = "atomic"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d workers\t%.0f words/sec\n", mode,
					cfg.Workers, rate)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&vocab, "vocab", 10000, "synthetic vocabulary size")
	cmd.Flags().IntVar(&words, "words", 1000000, "synthetic corpus length")
	cmd.Flags().Float64Var(&zipf, "zipf", 1.1, "Zipf exponent of the word distribution (> 1)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "",
		"serve Prometheus metrics on this address while running")
	return cmd
}

func benchmarkSession(ctx context.Context, cfg word2vec.Config, corpus []int,
	freqs []float64, metrics *word2vec.Metrics) (float64, error) {
	trainer, err := word2vec.NewTrainer(cfg, corpus, freqs)
	if err != nil {
		return 0, err
	}
	trainer.Metrics = metrics
	start := time.Now()
	if err := trainer.Train(ctx); err != nil {
		return 0, err
	}
	elapsed := time.Since(start).Seconds()
	return float64(len(corpus)*cfg.Epochs) / elapsed, nil
}

// zipfCorpus generates a corpus of word indices and the
// count of each index.
func zipfCorpus(r *rand.Rand, vocab, words int, s float64) ([]int, []float64) {
	gen := rand.NewZipf(r, s, 1, uint64(vocab-1))
	corpus := make([]int, words)
	freqs := make([]float64, vocab)
	for i := range corpus {
		corpus[i] = int(gen.Uint64())
		freqs[corpus[i]]++
	}
	return corpus, freqs
}
