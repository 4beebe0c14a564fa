// Package predict calls the external points predictor. The predictor is
// opaque: it receives {"playerData": {...}} as JSON and answers with a JSON
// object that is passed back to API clients unchanged.
package predict

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/albapepper/courtside-data/internal/config"
)

// ErrUnavailable wraps failures to reach or run the predictor.
var ErrUnavailable = errors.New("predictor unavailable")

// RecentGamesDefault is how many embedded logs are sent when the client
// does not supply recent games.
const RecentGamesDefault = 5

// Request is the body forwarded to the predictor.
type Request struct {
	PlayerData PlayerData `json:"playerData" validate:"required"`
}

// PlayerData identifies the player and carries the games to predict from.
type PlayerData struct {
	PlayerID    string `json:"playerId" validate:"required"`
	RecentGames []any  `json:"recentGames"`
}

// PredictionError is an error the predictor itself reported.
type PredictionError struct {
	Message string
}

func (e *PredictionError) Error() string { return "prediction failed: " + e.Message }

// Predictor turns a player's history into a predicted score.
type Predictor interface {
	Predict(ctx context.Context, req Request) ([]byte, error)
}

// New returns the HTTP predictor when a URL is configured, otherwise the
// script predictor.
func New(cfg *config.Config) Predictor {
	if cfg.PredictURL != "" {
		return &HTTPPredictor{
			URL:    cfg.PredictURL,
			Client: &http.Client{Timeout: cfg.PredictTimeout},
		}
	}
	return &ScriptPredictor{
		Command: cfg.PredictCommand,
		Script:  cfg.PredictScript,
		Timeout: cfg.PredictTimeout,
	}
}

// checkResponse rejects non-object output and objects carrying an "error"
// key.
func checkResponse(out []byte) error {
	var body map[string]any
	if err := sonic.Unmarshal(out, &body); err != nil {
		return errors.Wrapf(ErrUnavailable, "predictor returned invalid JSON: %v", err)
	}
	if msg, ok := body["error"]; ok && msg != nil {
		if s, ok := msg.(string); ok {
			return &PredictionError{Message: s}
		}
		return &PredictionError{Message: "unknown error"}
	}
	return nil
}

// --------------------------------------------------------------------------
// Script
// --------------------------------------------------------------------------

// ScriptPredictor runs `<Command> -u <Script> <json>` and reads the first
// line of stdout.
type ScriptPredictor struct {
	Command string
	Script  string
	Timeout time.Duration
}

func (p *ScriptPredictor) Predict(ctx context.Context, req Request) ([]byte, error) {
	payload, err := sonic.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "encode prediction request")
	}
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.Command, "-u", p.Script, string(payload))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "run %s %s: %v: %s",
			p.Command, p.Script, err, strings.TrimSpace(stderr.String()))
	}

	line, err := firstLine(out)
	if err != nil {
		return nil, err
	}
	if err := checkResponse(line); err != nil {
		return nil, err
	}
	return line, nil
}

func firstLine(out []byte) ([]byte, error) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		if line := bytes.TrimSpace(sc.Bytes()); len(line) > 0 {
			return bytes.Clone(line), nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "read predictor output: %v", err)
	}
	return nil, errors.Wrap(ErrUnavailable, "predictor produced no output")
}

// --------------------------------------------------------------------------
// HTTP
// --------------------------------------------------------------------------

// HTTPPredictor POSTs the request to a prediction service.
type HTTPPredictor struct {
	URL    string
	Client *http.Client
}

func (p *HTTPPredictor) Predict(ctx context.Context, req Request) ([]byte, error) {
	payload, err := sonic.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "encode prediction request")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build prediction request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "call predictor: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "read predictor response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if err := checkResponse(body); err != nil && !errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, errors.Wrapf(ErrUnavailable, "predictor returned %d", resp.StatusCode)
	}
	if err := checkResponse(body); err != nil {
		return nil, err
	}
	return body, nil
}
