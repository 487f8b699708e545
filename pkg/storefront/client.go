package storefront

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Product is the catalog item shape returned by the shop API.
type Product struct {
	ID            string
	Title         string
	Description   string
	Category      string
	CategoryLabel string
	Price         float64
	SalePrice     float64
	TotalStock    int
	Images        []string
}

// Pagination mirrors the backend's pagination envelope.
type Pagination struct {
	CurrentPage   int
	TotalPages    int
	TotalProducts int
	HasNext       bool
	HasPrev       bool
}

// CatalogPage is one page of catalog results. Pagination is nil when the
// backend response carried no pagination block.
type CatalogPage struct {
	Items      []Product
	Pagination *Pagination
}

// CartLine is one line of the authoritative cart as the API reports it.
type CartLine struct {
	ProductID string
	Title     string
	Image     string
	Price     float64
	SalePrice float64
	Quantity  int
}

// APIError is a non-2xx API response whose body carried a message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to the shop API. Requests are traced through otelhttp.
type Client struct {
	base *url.URL
	http *http.Client
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// NewClient builds a Client against baseURL (scheme and host, no trailing
// path beyond an optional prefix).
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	c := &Client{
		base: u,
		http: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// FetchCatalog runs one catalog query and decodes the result page.
func (c *Client) FetchCatalog(ctx context.Context, q Query) (*CatalogPage, error) {
	body, err := c.get(ctx, c.endpoint("/api/shop/products", q.Values()))
	if err != nil {
		return nil, err
	}
	page := &CatalogPage{}
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "data":
			return d.Arr(func(d *jx.Decoder) error {
				p, err := decodeProduct(d)
				if err != nil {
					return err
				}
				page.Items = append(page.Items, p)
				return nil
			})
		case "pagination":
			pg, err := decodePagination(d)
			if err != nil {
				return err
			}
			page.Pagination = pg
			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		return nil, errors.Wrap(err, "decode catalog response")
	}
	return page, nil
}

// GetCart fetches the authoritative cart for a user.
func (c *Client) GetCart(ctx context.Context, userID string) ([]CartLine, error) {
	body, err := c.get(ctx, c.endpoint("/api/shop/cart/"+url.PathEscape(userID), nil))
	if err != nil {
		return nil, err
	}
	var lines []CartLine
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "data" {
			return d.Skip()
		}
		return d.Obj(func(d *jx.Decoder, key string) error {
			if key != "items" {
				return d.Skip()
			}
			return d.Arr(func(d *jx.Decoder) error {
				line, err := decodeCartLine(d)
				if err != nil {
					return err
				}
				lines = append(lines, line)
				return nil
			})
		})
	}); err != nil {
		return nil, errors.Wrap(err, "decode cart response")
	}
	return lines, nil
}

// AddToCart submits an additive quantity delta for one product.
func (c *Client) AddToCart(ctx context.Context, userID, productID string, delta int) error {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("userId")
	e.Str(userID)
	e.FieldStart("productId")
	e.Str(productID)
	e.FieldStart("quantity")
	e.Int(delta)
	e.ObjEnd()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint("/api/shop/cart/add", nil), bytes.NewReader(e.Bytes()))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "add to cart")
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return apiError(resp)
	}
	return nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, apiError(resp)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	return body, nil
}

func apiError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: resp.Status}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}
	d := jx.DecodeBytes(body)
	_ = d.Obj(func(d *jx.Decoder, key string) error {
		if key != "message" {
			return d.Skip()
		}
		msg, err := d.Str()
		if err == nil && msg != "" {
			apiErr.Message = msg
		}
		return err
	})
	return apiErr
}

func decodeProduct(d *jx.Decoder) (Product, error) {
	var p Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = d.Str()
		case "title":
			p.Title, err = d.Str()
		case "description":
			p.Description, err = d.Str()
		case "category":
			p.Category, err = d.Str()
		case "categoryLabel":
			p.CategoryLabel, err = d.Str()
		case "price":
			p.Price, err = d.Float64()
		case "salePrice":
			p.SalePrice, err = d.Float64()
		case "totalStock":
			p.TotalStock, err = d.Int()
		case "images":
			err = d.Arr(func(d *jx.Decoder) error {
				img, err := d.Str()
				if err != nil {
					return err
				}
				p.Images = append(p.Images, img)
				return nil
			})
		default:
			err = d.Skip()
		}
		return err
	})
	return p, err
}

func decodePagination(d *jx.Decoder) (*Pagination, error) {
	pg := &Pagination{}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "currentPage":
			pg.CurrentPage, err = d.Int()
		case "totalPages":
			pg.TotalPages, err = d.Int()
		case "totalProducts":
			pg.TotalProducts, err = d.Int()
		case "hasNext":
			pg.HasNext, err = d.Bool()
		case "hasPrev":
			pg.HasPrev, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
	return pg, err
}

func decodeCartLine(d *jx.Decoder) (CartLine, error) {
	var line CartLine
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "productId":
			line.ProductID, err = d.Str()
		case "title":
			line.Title, err = d.Str()
		case "image":
			line.Image, err = d.Str()
		case "price":
			line.Price, err = d.Float64()
		case "salePrice":
			line.SalePrice, err = d.Float64()
		case "quantity":
			line.Quantity, err = d.Int()
		default:
			err = d.Skip()
		}
		return err
	})
	return line, err
}
