package bank

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"kyoto-kentei/internal/domain"
)

// FileLoader reads the bank from a local JSON file on every call.
type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	doc, err := l.LoadDocument()
	if err != nil {
		return nil, err
	}
	return doc.ToQuestions()
}

func (l *FileLoader) LoadDocument() (Document, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", domain.ErrQuestionBankLoad, err)
	}
	defer f.Close()
	return Decode(f)
}

// HTTPLoader fetches the bank from a URL, e.g. a static asset server.
type HTTPLoader struct {
	url    string
	client *http.Client
}

func NewHTTPLoader(url string, timeout time.Duration) *HTTPLoader {
	return &HTTPLoader{url: url, client: &http.Client{Timeout: timeout}}
}

func (l *HTTPLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQuestionBankLoad, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQuestionBankLoad, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET %s: status %d", domain.ErrQuestionBankLoad, l.url, resp.StatusCode)
	}
	doc, err := Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	return doc.ToQuestions()
}
