package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/matst80/kitchen-catalog/pkg/types"
)

// HttpSource reads the product list from a JSON product API. Both a bare
// array and an object with a "products" array are accepted.
type HttpSource struct {
	Url    string
	Client *http.Client
}

type productsEnvelope struct {
	Products []types.CatalogItem `json:"products"`
}

func NewHttpSource(url string) *HttpSource {
	return &HttpSource{
		Url:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (h *HttpSource) Name() string {
	return "api"
}

func (h *HttpSource) Items(ctx context.Context) ([]types.CatalogItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.Url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	res, err := h.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", res.StatusCode, h.Url)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	return decodeItems(body)
}

func decodeItems(body []byte) ([]types.CatalogItem, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		envelope := productsEnvelope{}
		if err := sonic.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("decode products: %w", err)
		}
		return envelope.Products, nil
	}
	items := make([]types.CatalogItem, 0)
	if err := sonic.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return items, nil
}
