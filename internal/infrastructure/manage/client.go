// Package manage is the HTTP adapter for the upstream ticketing API.
package manage

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/ezpsa-inc/ezpsa/internal/domain/ticket"
	"github.com/ezpsa-inc/ezpsa/internal/shared/biztime"
	"github.com/ezpsa-inc/ezpsa/internal/shared/config"
	"github.com/ezpsa-inc/ezpsa/internal/shared/logger"
)

const (
	ticketsPath     = "/service/tickets"
	boardsPath      = "/service/boards"
	companiesPath   = "/company/companies"
	timeEntriesPath = "/time/entries"

	// Notes and time entries are read in one request.
	activityPageSize = 1000

	maxBodyBytes = 4 << 20
)

var errUndecodable = errors.New("undecodable response")

// Client talks to the upstream REST API with API-member credentials.
type Client struct {
	baseURL        *url.URL
	authorization  string
	clientID       string
	httpClient     *http.Client
	requestTimeout time.Duration
	maxRetries     int
	retryInterval  time.Duration
	logger         logger.Interface
}

var (
	_ ticket.TicketFetcher   = (*Client)(nil)
	_ ticket.TicketWriter    = (*Client)(nil)
	_ ticket.ActivityReader  = (*Client)(nil)
	_ ticket.DirectoryReader = (*Client)(nil)
	_ ticket.TimeEntryReader = (*Client)(nil)
)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetryInterval sets the first delay between read retries.
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) { c.retryInterval = d }
}

// NewClient creates an upstream client from cfg.
func NewClient(cfg *config.ManageConfig, log logger.Interface, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid manage.base_url %q", cfg.BaseURL)
	}

	credentials := cfg.Company + "+" + cfg.PublicKey + ":" + cfg.PrivateKey
	c := &Client{
		baseURL:        base,
		authorization:  "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials)),
		clientID:       cfg.ClientID,
		httpClient:     &http.Client{},
		requestTimeout: cfg.RequestTimeout(),
		maxRetries:     max(cfg.MaxRetries, 0),
		retryInterval:  500 * time.Millisecond,
		logger:         log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchTicketPage reads one page of tickets.
func (c *Client) FetchTicketPage(ctx context.Context, q ticket.PageQuery) ([]ticket.Ticket, error) {
	params := url.Values{}
	if q.Conditions != "" {
		params.Set("conditions", q.Conditions)
	}
	if q.OrderBy != "" {
		params.Set("orderBy", q.OrderBy)
	}
	params.Set("pageSize", strconv.Itoa(q.PageSize))
	params.Set("page", strconv.Itoa(q.Page))

	const op = "list tickets"
	var records []ticketRecord
	if err := c.get(ctx, op, ticketsPath, params, &records); err != nil {
		return nil, err
	}

	tickets := make([]ticket.Ticket, 0, len(records))
	for _, r := range records {
		t, err := r.toDomain()
		if err != nil {
			return nil, &ticket.FetchError{Op: op, Err: fmt.Errorf("%w: %w", errUndecodable, err)}
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

// GetTicket reads a single ticket.
func (c *Client) GetTicket(ctx context.Context, ticketID int) (*ticket.Ticket, error) {
	const op = "get ticket"
	var record ticketRecord
	if err := c.get(ctx, op, ticketPath(ticketID), nil, &record); err != nil {
		return nil, err
	}
	t, err := record.toDomain()
	if err != nil {
		return nil, &ticket.FetchError{Op: op, Err: fmt.Errorf("%w: %w", errUndecodable, err)}
	}
	return &t, nil
}

// ListNotes reads the notes behind a ticket's notes link.
func (c *Client) ListNotes(ctx context.Context, href string) ([]ticket.Note, error) {
	if href == "" {
		return nil, nil
	}
	var records []noteRecord
	if err := c.get(ctx, "list notes", href, activityParams(), &records); err != nil {
		return nil, err
	}
	notes := make([]ticket.Note, 0, len(records))
	for _, r := range records {
		notes = append(notes, r.toDomain())
	}
	return notes, nil
}

// ListTimeEntries reads the time entries behind a ticket's time entries link.
func (c *Client) ListTimeEntries(ctx context.Context, href string) ([]ticket.TimeEntry, error) {
	if href == "" {
		return nil, nil
	}
	var records []timeEntryRecord
	if err := c.get(ctx, "list ticket time entries", href, activityParams(), &records); err != nil {
		return nil, err
	}
	return timeEntriesToDomain(records), nil
}

// ListTimeEntriesEntered reads one page of all time entries entered in [from, to).
func (c *Client) ListTimeEntriesEntered(ctx context.Context, from, to time.Time, pageSize, page int) ([]ticket.TimeEntry, error) {
	params := url.Values{}
	params.Set("conditions", fmt.Sprintf("dateEntered>=%s and dateEntered<%s",
		biztime.FormatConditionTime(from), biztime.FormatConditionTime(to)))
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("page", strconv.Itoa(page))

	var records []timeEntryRecord
	if err := c.get(ctx, "list time entries", timeEntriesPath, params, &records); err != nil {
		return nil, err
	}
	return timeEntriesToDomain(records), nil
}

// ListCompanies reads one page of companies ordered by name.
func (c *Client) ListCompanies(ctx context.Context, pageSize, page int) ([]ticket.Company, error) {
	params := url.Values{}
	params.Set("orderBy", "name asc")
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("page", strconv.Itoa(page))

	var records []companyRecord
	if err := c.get(ctx, "list companies", companiesPath, params, &records); err != nil {
		return nil, err
	}
	companies := make([]ticket.Company, 0, len(records))
	for _, r := range records {
		companies = append(companies, ticket.Company{ID: r.ID, Identifier: r.Identifier, Name: r.Name})
	}
	return companies, nil
}

// ListBoards reads one page of service boards.
func (c *Client) ListBoards(ctx context.Context, pageSize, page int) ([]ticket.Board, error) {
	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("page", strconv.Itoa(page))

	var records []boardRecord
	if err := c.get(ctx, "list boards", boardsPath, params, &records); err != nil {
		return nil, err
	}
	boards := make([]ticket.Board, 0, len(records))
	for _, r := range records {
		boards = append(boards, ticket.Board{ID: r.ID, Name: r.Name, Inactive: r.InactiveFlag})
	}
	return boards, nil
}

// CreateTicket creates a ticket and returns it as upstream stored it.
func (c *Client) CreateTicket(ctx context.Context, payload ticket.NewTicket) (*ticket.Ticket, error) {
	body := createTicketRequest{
		Summary:            payload.Summary,
		Company:            namedRef{ID: payload.CompanyID},
		Board:              namedRef{Name: payload.Board},
		InitialDescription: payload.InitialDescription,
	}
	if payload.Status != "" {
		body.Status = &namedRef{Name: payload.Status}
	}

	var record ticketRecord
	if err := c.send(ctx, "create ticket", http.MethodPost, ticketsPath, body, &record); err != nil {
		return nil, err
	}
	t := c.writtenTicket(record)
	if t.Summary == "" {
		t.Summary = payload.Summary
	}
	return &t, nil
}

// PatchTicketStatus sets a ticket's status by label.
func (c *Client) PatchTicketStatus(ctx context.Context, ticketID int, statusLabel string) (*ticket.Ticket, error) {
	body := []patchOp{{Op: "replace", Path: "status/name", Value: statusLabel}}

	var record ticketRecord
	if err := c.send(ctx, "update ticket status", http.MethodPatch, ticketPath(ticketID), body, &record); err != nil {
		return nil, err
	}
	t := c.writtenTicket(record)
	if t.ID == 0 {
		t.ID = ticketID
	}
	if t.Status == "" {
		t.Status = statusLabel
	}
	return &t, nil
}

// writtenTicket converts a write response. The write already succeeded, so a
// malformed timestamp only loses LastUpdated.
func (c *Client) writtenTicket(record ticketRecord) ticket.Ticket {
	t, err := record.toDomain()
	if err != nil {
		c.logger.Warnw("upstream write response has no usable lastUpdated",
			"ticket_id", record.ID,
			"error", err,
		)
	}
	return t
}

// get reads endpoint into out. Transport failures, timeouts, 429 and 5xx are
// retried with exponential backoff up to maxRetries times; every attempt has
// its own request timeout.
func (c *Client) get(ctx context.Context, op, endpoint string, params url.Values, out any) error {
	target, err := c.resolve(endpoint, params)
	if err != nil {
		return &ticket.FetchError{Op: op, Err: err}
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval
	bo.MaxInterval = 10 * c.retryInterval
	bo.Reset()

	for attempt := 0; ; attempt++ {
		err := c.getOnce(ctx, op, target, out)
		if err == nil || attempt >= c.maxRetries || !retryable(err) || ctx.Err() != nil {
			return err
		}

		delay := bo.NextBackOff()
		if delay == backoff.Stop {
			return err
		}
		c.logger.Warnw("upstream read failed, retrying",
			"op", op,
			"attempt", attempt+1,
			"delay", delay,
			"error", err,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}

func (c *Client) getOnce(ctx context.Context, op, target string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &ticket.FetchError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ticket.FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &ticket.FetchError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		if ctx.Err() != nil {
			return &ticket.FetchError{Op: op, Err: fmt.Errorf("read response: %w", ctx.Err())}
		}
		return &ticket.FetchError{Op: op, Err: fmt.Errorf("%w: %w", errUndecodable, err)}
	}
	return nil
}

// send performs a write. Writes are not retried here.
func (c *Client) send(ctx context.Context, op, method, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &ticket.WriteError{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
	}
	target, err := c.resolve(endpoint, nil)
	if err != nil {
		return &ticket.WriteError{Op: op, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payload))
	if err != nil {
		return &ticket.WriteError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ticket.WriteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ticket.WriteError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       data,
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}
	if err != nil {
		c.logger.Warnw("failed to read upstream write response", "op", op, "error", err)
		return nil
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			c.logger.Warnw("failed to decode upstream write response", "op", op, "error", err)
		}
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", c.authorization)
	req.Header.Set("ClientId", c.clientID)
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
}

// resolve turns an API path or an absolute link returned by the API into a
// request URL. Absolute links must point at the configured API host so the
// credentials are never sent elsewhere.
func (c *Client) resolve(endpoint string, params url.Values) (string, error) {
	var u *url.URL
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		parsed, err := url.Parse(endpoint)
		if err != nil {
			return "", fmt.Errorf("invalid link %q: %w", endpoint, err)
		}
		if !strings.EqualFold(parsed.Host, c.baseURL.Host) {
			return "", fmt.Errorf("link host %q does not match API host %q", parsed.Host, c.baseURL.Host)
		}
		u = parsed
	} else {
		u = c.baseURL.JoinPath(endpoint)
	}

	if len(params) > 0 {
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Set(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func retryable(err error) bool {
	var fe *ticket.FetchError
	if !errors.As(err, &fe) {
		return false
	}
	switch {
	case fe.StatusCode == http.StatusTooManyRequests, fe.StatusCode >= 500:
		return true
	case fe.StatusCode != 0:
		return false
	default:
		return !errors.Is(fe.Err, errUndecodable)
	}
}

func activityParams() url.Values {
	return url.Values{"pageSize": {strconv.Itoa(activityPageSize)}}
}

func ticketPath(ticketID int) string {
	return ticketsPath + "/" + strconv.Itoa(ticketID)
}

func timeEntriesToDomain(records []timeEntryRecord) []ticket.TimeEntry {
	entries := make([]ticket.TimeEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, r.toDomain())
	}
	return entries
}
