// Command cbow builds CBOW training tables and benchmarks
// the training kernel.
package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vecforge/wordembed/word2vec"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithViper(viper.New())
}

func newRootCmdWithViper(v *viper.Viper) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "cbow",
		Short:         "CBOW word2vec training tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(v, configFile)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	flags.String("log-level", "info", "logrus level")
	flags.Int("dim", word2vec.DefaultDim, "embedding dimension")
	flags.Bool("hierarchical", false, "enable hierarchical softmax")
	flags.Int("negative", word2vec.DefaultNegative, "negative samples per target (0 disables)")
	flags.String("collisions", word2vec.SkipCollisions.String(),
		"negative draws equal to the target: skip, redraw or accept")
	flags.Int("window", word2vec.DefaultWindow, "maximum context words on each side")
	flags.Float64("sample", word2vec.DefaultSample, "subsampling threshold (0 disables)")
	flags.Float64("rate", word2vec.DefaultRate, "starting learning rate")
	flags.Float64("min-rate-fraction", word2vec.DefaultMinRateFraction,
		"lower bound of the decayed rate, as a fraction of the starting rate")
	flags.Int("epochs", word2vec.DefaultEpochs, "passes over the corpus")
	flags.Int("workers", 0, "training goroutines (0 uses the logical CPU count)")
	flags.Bool("atomic", false, "use atomic float additions instead of Hogwild updates")
	flags.Int64("seed", 1, "random seed")
	flags.Int("table-size", word2vec.DefaultTableSize, "negative sampling table size")
	flags.Float64("power", word2vec.DefaultPower, "negative sampling smoothing exponent")
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}
	v.SetEnvPrefix("CBOW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(newTreeCmd(v), newBenchCmd(v))
	return root
}

func loadConfig(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}
	level, err := logrus.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	return nil
}

// sessionConfig creates the training configuration from
// flags, environment variables and the config file.
func sessionConfig(v *viper.Viper) (word2vec.Config, error) {
	collisions, err := word2vec.ParseCollisionPolicy(v.GetString("collisions"))
	if err != nil {
		return word2vec.Config{}, err
	}
	cfg := word2vec.Config{
		Dim:             v.GetInt("dim"),
		Hierarchical:    v.GetBool("hierarchical"),
		Negative:        v.GetInt("negative"),
		Collisions:      collisions,
		Window:          v.GetInt("window"),
		Sample:          v.GetFloat64("sample"),
		Rate:            v.GetFloat64("rate"),
		MinRateFraction: v.GetFloat64("min-rate-fraction"),
		Epochs:          v.GetInt("epochs"),
		Workers:         v.GetInt("workers"),
		Atomic:          v.GetBool("atomic"),
		Seed:            v.GetInt64("seed"),
		TableSize:       v.GetInt("table-size"),
		Power:           v.GetFloat64("power"),
	}
	if cfg.Workers == 0 {
		cfg.Workers = defaultWorkers()
	}
	return cfg, nil
}

func defaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}
