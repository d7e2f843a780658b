package game

import (
	"math/rand/v2"
	"strings"
	"sync"
)

// codeAlphabet leaves out the glyphs players misread when typing a code
// by hand (I, O, 0, 1).
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

type codeGenerator struct {
	live   map[string]struct{}
	locker sync.Mutex
}

func newCodeGenerator() *codeGenerator {
	return &codeGenerator{live: make(map[string]struct{})}
}

// Generate returns a code no live room is currently using, retrying on
// collision.
func (g *codeGenerator) Generate() string {
	g.locker.Lock()
	defer g.locker.Unlock()
	for {
		buf := make([]byte, codeLength)
		for i := range buf {
			buf[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
		}
		code := string(buf)
		if _, taken := g.live[code]; !taken {
			g.live[code] = struct{}{}
			return code
		}
	}
}

// Release frees a code for reuse once its room is gone.
func (g *codeGenerator) Release(code string) {
	g.locker.Lock()
	delete(g.live, code)
	g.locker.Unlock()
}

// NormalizeCode maps user input to the canonical code form before lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
