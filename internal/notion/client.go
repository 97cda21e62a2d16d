package notion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"github.com/nguyentantai21042004/bibliosophia/internal/apperror"
	"github.com/nguyentantai21042004/bibliosophia/internal/logger"
	"github.com/nguyentantai21042004/bibliosophia/internal/models"
)

const (
	DefaultBaseURL = "https://api.notion.com"
	pageIcon       = "🎬"
)

// Publisher creates one database page per processed video.
type Publisher interface {
	Publish(ctx context.Context, info models.VideoInfo, summary, transcript string) (string, error)
}

type implPublisher struct {
	client   *notionapi.Client
	parentID string
	logger   logger.Logger
}

// Config holds the integration token and the target database.
type Config struct {
	APIKey   string
	ParentID string
	BaseURL  string
}

// New creates a Publisher for the Notion pages API
func New(cfg Config, log logger.Logger) Publisher {
	hc := &http.Client{Timeout: 60 * time.Second}
	if cfg.BaseURL != "" && strings.TrimSuffix(cfg.BaseURL, "/") != DefaultBaseURL {
		if u, err := url.Parse(cfg.BaseURL); err == nil {
			hc.Transport = &hostRewrite{target: u, next: http.DefaultTransport}
		}
	}
	return &implPublisher{
		client:   notionapi.NewClient(notionapi.Token(cfg.APIKey), notionapi.WithHTTPClient(hc)),
		parentID: cfg.ParentID,
		logger:   log,
	}
}

// hostRewrite sends requests to a different scheme and host. The client
// library always targets api.notion.com.
type hostRewrite struct {
	target *url.URL
	next   http.RoundTripper
}

func (h *hostRewrite) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.URL.Scheme = h.target.Scheme
	r.URL.Host = h.target.Host
	r.Host = h.target.Host
	return h.next.RoundTrip(r)
}

// buildPage maps a processed video to the database schema.
func buildPage(parentID string, info models.VideoInfo, summary, transcript string) *notionapi.PageCreateRequest {
	props := notionapi.Properties{
		"Title":               &notionapi.TitleProperty{Title: richText(info.Title)},
		"URL Video":           &notionapi.URLProperty{URL: info.URL},
		"Canal YouTube":       &notionapi.RichTextProperty{RichText: richText(info.Channel)},
		"Resumen Video":       &notionapi.RichTextProperty{RichText: richText(SummaryExcerpt(summary))},
		"Acciones_Aplicación": &notionapi.RichTextProperty{RichText: richText(ActionItems(summary))},
		"Keywords":            &notionapi.RichTextProperty{RichText: richText(Keywords(info.Title, summary))},
		"Categoría":           &notionapi.SelectProperty{Select: notionapi.Option{Name: Classify(info.Title, summary)}},
	}
	if info.UploadDate != nil {
		if d, err := time.Parse(time.DateOnly, *info.UploadDate); err == nil {
			start := notionapi.Date(d)
			props["Fecha Video"] = &notionapi.DateProperty{Date: &notionapi.DateObject{Start: &start}}
		}
	}

	emoji := notionapi.Emoji(pageIcon)
	return &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(parentID),
		},
		Icon:       &notionapi.Icon{Type: "emoji", Emoji: &emoji},
		Properties: props,
		Children:   toNotion(Compile(summary, transcript)),
	}
}

// Publish creates the page and returns its URL
func (p *implPublisher) Publish(ctx context.Context, info models.VideoInfo, summary, transcript string) (string, error) {
	p.logger.Info(ctx, "Creating Notion page for %q", info.Title)

	page, err := p.client.Page.Create(ctx, buildPage(p.parentID, info, summary, transcript))
	if err != nil {
		return "", classifyError(err)
	}

	p.logger.Info(ctx, "Notion page created: %s", page.URL)
	return page.URL, nil
}

// classifyError maps a client error onto an apperror kind. The status of
// an API error comes from the error object in the response body.
func classifyError(err error) error {
	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized:
			return apperror.New(apperror.InvalidCredential, "API key de Notion inválida.")
		case http.StatusNotFound:
			return apperror.New(apperror.NotFound,
				"Database ID no encontrado. Verifica que la base de datos está compartida con tu integración.")
		}
		return apperror.Rejected("Notion", apiErr.Status, fmt.Sprintf("%s: %s", apiErr.Code, apiErr.Message))
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return apperror.Wrap(apperror.NetworkFailure, err, "Error conectando con Notion: %v", err)
	}
	return apperror.Wrap(apperror.ParseFailure, err, "Error parseando respuesta de Notion: %v", err)
}
