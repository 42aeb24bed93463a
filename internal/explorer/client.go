// Package explorer queries the Lichess opening explorer for per-move play
// counts in the masters database.
package explorer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/skiminki/novelty-grinder/internal/retry"
)

// DefaultBaseURL is the public Lichess opening explorer endpoint.
const DefaultBaseURL = "https://explorer.lichess.ovh"

// movesLimit is the number of distinct moves requested per position. The
// explorer never reports more than the moves actually played, so this is
// effectively "all book moves".
const movesLimit = 30

// MoveStats is the play-count record of one book move.
type MoveStats struct {
	UCI   string `json:"uci"`
	SAN   string `json:"san"`
	White int    `json:"white"`
	Draws int    `json:"draws"`
	Black int    `json:"black"`
}

// Games returns the total number of games containing the move.
func (m MoveStats) Games() int { return m.White + m.Draws + m.Black }

// Stats is the per-position aggregate returned by the explorer.
type Stats struct {
	White int         `json:"white"`
	Draws int         `json:"draws"`
	Black int         `json:"black"`
	Moves []MoveStats `json:"moves"`
}

// TotalGames returns the book size of the position.
func (s *Stats) TotalGames() int { return s.White + s.Draws + s.Black }

// Client is a synchronous opening explorer client with bounded retry on
// transient failures.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Policy     retry.Policy
	Log        *log.Logger
}

// NewClient returns a client with the production retry schedule: two extra
// attempts after 3s and 5s waits.
func NewClient(token string, logger *log.Logger) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		Token:      token,
		HTTPClient: http.DefaultClient,
		Policy: retry.Policy{
			Waits: []time.Duration{3 * time.Second, 5 * time.Second},
		},
		Log: logger,
	}
}

// transientError marks a failure worth retrying: transport errors, rate
// limiting and server-side errors.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// Lookup fetches the masters-database stats for the position identified by
// fen. Exhausting the retry schedule propagates the failure as fatal for
// the run.
func (c *Client) Lookup(fen string) (*Stats, error) {
	var stats *Stats
	err := c.Policy.Do(func() error {
		var err error
		stats, err = c.lookupOnce(fen)
		if err != nil && c.Log != nil {
			c.Log.Warn("opening explorer query error", "err", err)
		}
		return err
	}, isTransient)
	if err != nil {
		return nil, fmt.Errorf("opening explorer lookup: %w", err)
	}
	return stats, nil
}

func (c *Client) lookupOnce(fen string) (*Stats, error) {
	q := url.Values{}
	q.Set("fen", fen)
	q.Set("topGames", "0")
	q.Set("moves", strconv.Itoa(movesLimit))

	req, err := http.NewRequest(http.MethodGet, c.BaseURL+"/masters?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &transientError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("explorer returned status %d", resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, &transientError{err: err}
		}
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transientError{err: err}
	}
	var stats Stats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("decoding explorer response: %w", err)
	}
	return &stats, nil
}
