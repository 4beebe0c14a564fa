package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/albapepper/courtside-data/internal/parse"
	"github.com/albapepper/courtside-data/internal/store"
)

// AttachPlayerIDs sets the external player id on players matched by exact,
// case-sensitive name. Pairs are applied in feed order, so when the feed
// repeats a name the later row wins. A name with no stored player is
// counted as unmatched. A name shared by several stored players is not
// written: there is no way to tell which of them the id belongs to.
func AttachPlayerIDs(ctx context.Context, st store.Store, pairs []parse.PlayerIDPair, logger *slog.Logger) (Result, error) {
	res := Result{Pass: "attach-ids"}
	logger.Info("Attaching player ids", "pairs", len(pairs))

	for _, pair := range pairs {
		res.Processed++
		n, err := st.CountPlayersByName(ctx, pair.Name)
		if err != nil {
			return res, fmt.Errorf("look up %q: %w", pair.Name, err)
		}
		switch {
		case n == 0:
			res.Unmatched++
			continue
		case n > 1:
			res.Ambiguous++
			res.warnf("%d players named %q; id %s not attached", n, pair.Name, pair.ID)
			continue
		}

		matched, err := st.SetPlayerIDByName(ctx, pair.Name, pair.ID)
		if err != nil {
			return res, fmt.Errorf("set id for %q: %w", pair.Name, err)
		}
		if matched {
			res.Updated++
		} else {
			res.Unmatched++
		}
	}

	res.log(logger)
	return res, nil
}
