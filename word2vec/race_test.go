//go:build race

package word2vec

// Lock-free Hogwild updates are reported by the race
// detector, so multi-worker tests are skipped under -race.
const raceEnabled = true
