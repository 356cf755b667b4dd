package word2vec

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vecforge/wordembed"
	"golang.org/x/sync/errgroup"
)

// rateRefresh is the number of words a worker reads before
// it publishes its progress and recomputes the rate.
const rateRefresh = 10000

// Progress is reported periodically by each worker.
type Progress struct {
	Worker int
	Epoch  int

	// Words is the number of corpus positions read by all
	// workers so far.
	Words int64

	Rate float32

	// Loss is Kernel.Loss for the worker's latest sample.
	Loss float64
}

// A Trainer trains CBOW embeddings over an in-memory corpus
// of vocabulary indices.
//
// The corpus is split into one contiguous range per worker.
// Workers update the shared Store concurrently without
// locks.
type Trainer struct {
	Config Config
	Kernel *Kernel
	Corpus []int

	// Subsampler, if non-nil, randomly drops frequent
	// words before windows are formed.
	Subsampler *Subsampler

	// Log receives training logs. If nil, the standard
	// logrus logger is used.
	Log logrus.FieldLogger

	// Metrics, if non-nil, is updated during training.
	Metrics *Metrics

	// StatusFunc, if non-nil, is called with the progress
	// of a worker every few thousand words. It may be
	// called concurrently.
	StatusFunc func(p Progress)

	processed int64
}

// NewTrainer builds the tables for a session from the
// frequency vector and creates a Trainer.
//
// freqs[i] is the frequency of vocabulary index i; its
// length is the vocabulary size.
func NewTrainer(cfg Config, corpus []int, freqs []float64) (*Trainer, error) {
	if err := cfg.validateTraining(); err != nil {
		return nil, err
	}
	if len(freqs) == 0 {
		return nil, newError(InvalidConfiguration, "empty vocabulary")
	}

	store := NewStore(len(freqs), cfg.Dim, cfg.Hierarchical, cfg.Negative > 0, newRand(cfg.Seed))
	store.Atomic = cfg.Atomic

	var tree *Tree
	var table *SamplingTable
	var err error
	if cfg.Hierarchical {
		if tree, err = BuildTree(freqs); err != nil {
			return nil, err
		}
	}
	if cfg.Negative > 0 {
		if table, err = NewSamplingTable(freqs, cfg.Power, cfg.TableSize); err != nil {
			return nil, err
		}
	}
	kernel, err := NewKernel(cfg, store, tree, table, nil)
	if err != nil {
		return nil, err
	}

	res := &Trainer{Config: cfg, Kernel: kernel, Corpus: corpus}
	if cfg.Sample > 0 {
		if res.Subsampler, err = NewSubsampler(freqs, cfg.Sample); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Train runs every epoch over the corpus.
//
// Canceling ctx stops the workers between samples; updates
// already in progress always finish. In that case the
// context's error is returned.
func (t *Trainer) Train(ctx context.Context) error {
	if err := t.Config.validateTraining(); err != nil {
		return err
	}
	log := t.logger().WithField("session", uuid.New().String())
	atomic.StoreInt64(&t.processed, 0)

	schedule := Schedule{
		Start:       t.Config.Rate,
		MinFraction: t.Config.MinRateFraction,
		Total:       int64(t.Config.Epochs) * int64(len(t.Corpus)),
	}
	spans := partitionCorpus(len(t.Corpus), t.Config.Workers)
	log.WithFields(logrus.Fields{
		"words":        len(t.Corpus),
		"vocab":        t.Kernel.Store.Vocab,
		"dim":          t.Kernel.Store.Dim,
		"workers":      len(spans),
		"epochs":       t.Config.Epochs,
		"hierarchical": t.Kernel.Tree != nil,
		"negative":     t.Kernel.Negative,
		"atomic":       t.Kernel.Store.Atomic,
	}).Info("starting CBOW training")

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for i, s := range spans {
		i, s := i, s
		g.Go(func() error {
			return t.runWorker(ctx, i, s, schedule, log.WithField("worker", i))
		})
	}
	if err := g.Wait(); err != nil {
		log.WithError(err).Warn("training stopped")
		return err
	}
	log.WithFields(logrus.Fields{
		"words":   atomic.LoadInt64(&t.processed),
		"elapsed": time.Since(start).String(),
	}).Info("finished CBOW training")
	return nil
}

// Embedding is shorthand for t.Kernel.Store.Embedding.
func (t *Trainer) Embedding(tokens wordembed.TokenSet) (*Embedding, error) {
	return t.Kernel.Store.Embedding(tokens)
}

func (t *Trainer) runWorker(ctx context.Context, id int, s span, schedule Schedule,
	log logrus.FieldLogger) error {
	r := newRand(t.Config.Seed + int64(id) + 1)
	sc := NewScratch(t.Kernel.Store.Dim, r)
	var sample Sample
	var words []int

	for epoch := 0; epoch < t.Config.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		words = t.keptWords(words[:0], s, r)
		rate := schedule.Rate(atomic.LoadInt64(&t.processed))

		// Subsampled words still count as read, so the rate
		// decays at the same pace whatever the threshold.
		perKept := float64(s.End-s.Start) / float64(max(len(words), 1))
		var read float64
		var published int64

		for pos, word := range words {
			read += perKept
			if unpublished := int64(read) - published; unpublished >= rateRefresh {
				done := atomic.AddInt64(&t.processed, unpublished)
				published += unpublished
				rate = schedule.Rate(done)
				t.Metrics.progress(unpublished, rate)
				t.report(id, epoch, done, rate, &sample, log)
				if err := ctx.Err(); err != nil {
					return err
				}
			}

			radius := t.Config.Window - r.Intn(t.Config.Window)
			sample.Target = word
			sample.Context = Window(sample.Context[:0], words, pos, radius)
			sample.Rate = rate
			status, err := t.Kernel.Update(&sample, sc)
			switch {
			case err != nil:
				t.Metrics.sample(resultOutOfRange)
				log.WithError(err).Debug("skipping sample")
			case status == StatusEmptyContext:
				t.Metrics.sample(resultEmptyContext)
			default:
				t.Metrics.sample(resultApplied)
			}
		}

		if rest := int64(s.End-s.Start) - published; rest > 0 {
			done := atomic.AddInt64(&t.processed, rest)
			t.Metrics.progress(rest, schedule.Rate(done))
		}
		log.WithField("epoch", epoch).Debug("epoch finished")
	}
	return nil
}

// keptWords appends the words of the span that survive
// subsampling. Indices outside the vocabulary are dropped
// and counted.
func (t *Trainer) keptWords(dst []int, s span, r *rand.Rand) []int {
	vocab := t.Kernel.Store.Vocab
	for _, word := range t.Corpus[s.Start:s.End] {
		if word < 0 || word >= vocab {
			t.Metrics.sample(resultOutOfRange)
			continue
		}
		if t.Subsampler != nil && !t.Subsampler.Keep(word, r) {
			continue
		}
		dst = append(dst, word)
	}
	return dst
}

func (t *Trainer) report(worker, epoch int, words int64, rate float32, last *Sample,
	log logrus.FieldLogger) {
	p := Progress{Worker: worker, Epoch: epoch, Words: words, Rate: rate}
	if t.StatusFunc == nil {
		log.WithFields(logrus.Fields{"words": words, "rate": rate}).Debug("progress")
		return
	}
	if len(last.Context) > 0 {
		loss, err := t.Kernel.Loss(last)
		if err != nil {
			log.WithError(err).Debug("loss unavailable")
		}
		p.Loss = loss
	}
	t.StatusFunc(p)
}

func (t *Trainer) logger() logrus.FieldLogger {
	if t.Log != nil {
		return t.Log
	}
	return logrus.StandardLogger()
}

// A span is a half-open range of corpus positions handled
// by one worker.
type span struct {
	Start int
	End   int
}

func partitionCorpus(n, workers int) []span {
	if workers > n {
		workers = n
	}
	if workers == 0 {
		return nil
	}
	res := make([]span, workers)
	var start int
	for i := range res {
		size := n / workers
		if i < n%workers {
			size++
		}
		res[i] = span{Start: start, End: start + size}
		start += size
	}
	return res
}
