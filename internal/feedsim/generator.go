package feedsim

import (
	"crypto/rand"
	"math/big"
	"time"
)

// Confidence ranges per recognition outcome.
const (
	knownConfidenceMin     = 0.75
	knownConfidenceRange   = 0.24
	unknownConfidenceMin   = 0.30
	unknownConfidenceRange = 0.44
)

// unknownWeight is the share of detections labeled as strangers,
// in percent.
const unknownWeight = 25

// UnknownLabel is the placeholder name for unrecognized faces.
const UnknownLabel = "Unknown"

const randomFloatDivisor = 1000000

// subjects is the gallery of recognizable people the simulator draws from.
var subjects = []string{
	"Alice", "Bob", "Carol", "Dave", "Eve",
	"Frank", "Grace", "Heidi", "Ivan", "Judy",
}

// Detection is one synthetic recognition result.
type Detection struct {
	Name       string
	Confidence float64
	Known      bool
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomInt returns a random int in [0, max) using crypto/rand.
func getRandomInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// Generator produces detections, suppressing repeats of the same
// subject inside the cooldown window the way a camera pipeline would.
type Generator struct {
	cooldown time.Duration
	lastSeen map[string]time.Time
	now      func() time.Time
}

// NewGenerator creates a generator with the given cooldown window.
func NewGenerator(cooldown time.Duration) *Generator {
	return &Generator{
		cooldown: cooldown,
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Next returns the next detection, or false when the drawn subject is
// still inside its cooldown window.
func (g *Generator) Next() (Detection, bool) {
	d := randomDetection()

	now := g.now()
	if last, ok := g.lastSeen[d.Name]; ok && now.Sub(last) < g.cooldown {
		return Detection{}, false
	}
	g.lastSeen[d.Name] = now

	return d, true
}

// randomDetection draws one detection: mostly gallery subjects with
// high confidence, occasionally a stranger with a low-confidence guess.
func randomDetection() Detection {
	if getRandomInt(100) < unknownWeight {
		return Detection{
			Name:       UnknownLabel,
			Confidence: unknownConfidenceMin + getRandomFloat()*unknownConfidenceRange,
			Known:      false,
		}
	}
	return Detection{
		Name:       subjects[getRandomInt(len(subjects))],
		Confidence: knownConfidenceMin + getRandomFloat()*knownConfidenceRange,
		Known:      true,
	}
}
