package journal

import (
	"context"

	"github.com/kballard/go-shellquote"

	"github.com/bdobrica/folio/internal/folio/dialogue"
)

// seedWindow is how many recent commands are scanned for context.
const seedWindow = 50

// Seed recovers the last account and asset from recently executed commands.
func (j *Journal) Seed(ctx context.Context) (dialogue.Seed, error) {
	cmds, err := j.RecentCommands(ctx, seedWindow)
	if err != nil {
		return dialogue.Seed{}, err
	}
	lines := make([]string, len(cmds))
	for i, c := range cmds {
		lines[i] = c.Command
	}
	return SeedFromCommands(lines), nil
}

// accountFlags carry an account name, in order of preference.
var accountFlags = []string{"--account", "--from", "--to"}

// SeedFromCommands scans command lines, newest first, and keeps the first
// account and asset it finds. Lines that do not split are skipped.
func SeedFromCommands(lines []string) dialogue.Seed {
	var seed dialogue.Seed
	for _, line := range lines {
		words, err := shellquote.Split(line)
		if err != nil || len(words) == 0 {
			continue
		}
		if seed.LastAccount == "" {
			seed.LastAccount = accountOf(words)
		}
		if seed.LastAsset == "" {
			seed.LastAsset = assetOf(words)
		}
		if seed.LastAccount != "" && seed.LastAsset != "" {
			break
		}
	}
	return seed
}

func accountOf(words []string) string {
	for _, flag := range accountFlags {
		for i := 0; i+1 < len(words); i++ {
			if words[i] == flag && words[i+1] != "" {
				return words[i+1]
			}
		}
	}
	return ""
}

// assetOf returns the asset positional of price, market, tx and holdings
// commands.
func assetOf(words []string) string {
	var pos int
	switch words[0] {
	case "price", "market":
		pos = 1
	case "tx":
		if len(words) < 2 {
			return ""
		}
		switch words[1] {
		case "buy", "sell", "transfer", "swap":
			pos = 2
		default:
			return ""
		}
	case "holdings":
		if len(words) < 2 {
			return ""
		}
		switch words[1] {
		case "add", "remove", "move":
			pos = 2
		default:
			return ""
		}
	default:
		return ""
	}
	if pos >= len(words) || len(words[pos]) > 0 && words[pos][0] == '-' {
		return ""
	}
	return words[pos]
}
