package network

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html/charset"

	"github.com/stagas/dom-lite/css"
	"github.com/stagas/dom-lite/dom"
)

// Resource is a loaded file or HTTP response body.
type Resource struct {
	URL         string
	Content     []byte
	ContentType string
}

// Text decodes Content to UTF-8 using the charset of ContentType, a BOM
// or a <meta> declaration.
func (r *Resource) Text() (string, error) {
	reader, err := charset.NewReader(bytes.NewReader(r.Content), r.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", r.URL, err)
	}
	text, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", r.URL, err)
	}
	return string(text), nil
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger for skipped resources.
func WithLogger(logger logrus.FieldLogger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// Loader loads resources from local paths, file:// URLs and http(s) URLs.
type Loader struct {
	client *Client
	logger logrus.FieldLogger
}

// NewLoader creates a new resource loader.
func NewLoader(client *Client, opts ...LoaderOption) *Loader {
	l := &Loader{client: client}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		l.logger = discard
	}
	return l
}

func isHTTP(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Resolve resolves ref against base, which is itself a path or URL.
// An empty base returns ref unchanged.
func Resolve(base, ref string) (string, error) {
	if base == "" || isHTTP(ref) || strings.HasPrefix(ref, "file://") {
		return ref, nil
	}
	if isHTTP(base) {
		b, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("failed to resolve URL: %w", err)
		}
		r, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("failed to resolve URL: %w", err)
		}
		return b.ResolveReference(r).String(), nil
	}
	if filepath.IsAbs(ref) {
		return ref, nil
	}
	return filepath.Join(filepath.Dir(strings.TrimPrefix(base, "file://")), ref), nil
}

// Load loads ref. HTTP responses outside 2xx are errors.
func (l *Loader) Load(ctx context.Context, ref string) (*Resource, error) {
	if isHTTP(ref) {
		resp, err := l.client.Get(ctx, ref)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("GET %s: status %d", ref, resp.StatusCode)
		}
		return &Resource{URL: resp.URL, Content: resp.Body, ContentType: resp.ContentType}, nil
	}

	path := strings.TrimPrefix(ref, "file://")
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Resource{URL: ref, Content: content, ContentType: mime.TypeByExtension(filepath.Ext(path))}, nil
}

// LoadDocument loads and parses an HTML page.
func (l *Loader) LoadDocument(ctx context.Context, ref string, opts ...dom.Option) (*dom.Document, error) {
	res, err := l.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	text, err := res.Text()
	if err != nil {
		return nil, err
	}
	return dom.ParseHTML(text, opts...)
}

// LoadStylesheets adds every <link rel="stylesheet"> of doc to resolver,
// resolving hrefs against base. Sheets that fail to load are logged and
// skipped. It returns the number of sheets added.
func (l *Loader) LoadStylesheets(ctx context.Context, doc *dom.Document, base string, resolver *css.Resolver) (int, error) {
	links, err := doc.QuerySelectorAll("link[href]")
	if err != nil {
		return 0, err
	}
	added := 0
	for _, link := range links.Slice() {
		if !strings.EqualFold(strings.TrimSpace(link.GetAttribute("rel")), "stylesheet") {
			continue
		}
		ref, err := Resolve(base, link.GetAttribute("href"))
		if err != nil {
			l.logger.WithError(err).Warn("skipping stylesheet")
			continue
		}
		log := l.logger.WithField("href", ref)
		res, err := l.Load(ctx, ref)
		if err != nil {
			log.WithError(err).Warn("skipping stylesheet")
			continue
		}
		text, err := res.Text()
		if err == nil {
			err = resolver.AddStylesheet(text)
		}
		if err != nil {
			log.WithError(err).Warn("skipping stylesheet")
			continue
		}
		log.Debug("stylesheet loaded")
		added++
	}
	return added, nil
}
