// Package geo содержит клиента картографического провайдера и сервис
// геокодирования с деградацией: сбой провайдера не валит вызывающего.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNoAPIKey возвращается при вызове без настроенного ключа провайдера.
var ErrNoAPIKey = errors.New("geo api key is not configured")

// Client — HTTP-клиент картографического провайдера.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт нового клиента провайдера.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GeocodeResponse — ответ провайдера на прямое и обратное геокодирование.
type GeocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// DistanceMatrixResponse — ответ провайдера на матрицу расстояний.
// Статус живёт на двух уровнях: у ответа целиком и у каждого элемента.
type DistanceMatrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int64  `json:"value"`
				Text  string `json:"text"`
			} `json:"distance"`
			Duration struct {
				Value int64  `json:"value"`
				Text  string `json:"text"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("unexpected status: " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Geocode переводит адрес в координаты.
func (c *Client) Geocode(ctx context.Context, address string) (*GeocodeResponse, error) {
	body, err := c.get(ctx, "/geocode/json", url.Values{"address": {address}})
	if err != nil {
		return nil, err
	}
	var parsed GeocodeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// ReverseGeocode переводит координаты в адрес.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodeResponse, error) {
	latlng := strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
	body, err := c.get(ctx, "/geocode/json", url.Values{"latlng": {latlng}})
	if err != nil {
		return nil, err
	}
	var parsed GeocodeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// DistanceMatrix запрашивает матрицу расстояний между точками.
func (c *Client) DistanceMatrix(ctx context.Context, origins, destinations []string) (*DistanceMatrixResponse, error) {
	params := url.Values{
		"origins":      {strings.Join(origins, "|")},
		"destinations": {strings.Join(destinations, "|")},
	}
	body, err := c.get(ctx, "/distancematrix/json", params)
	if err != nil {
		return nil, err
	}
	var parsed DistanceMatrixResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// Raw выполняет действие провайдера и возвращает сырое тело ответа
// без разбора. Используется функциональной границей, которая отдаёт
// payload провайдера как есть.
func (c *Client) Raw(ctx context.Context, action string, params url.Values) ([]byte, error) {
	switch action {
	case "geocode", "reverse_geocode":
		return c.get(ctx, "/geocode/json", params)
	case "directions":
		return c.get(ctx, "/distancematrix/json", params)
	default:
		return nil, fmt.Errorf("unknown geo action %q", action)
	}
}
