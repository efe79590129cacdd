package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	appErrors "github.com/MaximoGamba/DemoEcommers/internal/errors"
	"github.com/MaximoGamba/DemoEcommers/internal/models"
	"github.com/shopspring/decimal"
)

// ValidateCoupon submits a code plus purchase amount. The backend answers an
// invalid code with an error status whose envelope still carries a full
// validation payload; that is a business outcome, so it is returned as a
// value, not an error. Only transport faults produce an error here.
func (c *Client) ValidateCoupon(ctx context.Context, code string, purchaseAmount decimal.Decimal) (*models.CouponValidation, error) {
	query := url.Values{}
	query.Set("codigo", code)
	query.Set("montoCompra", purchaseAmount.String())

	req, err := c.newRequest(ctx, requestSpec{
		method:   http.MethodPost,
		path:     "/cupones/validar",
		endpoint: "/cupones/validar",
		query:    query,
	})
	if err != nil {
		return nil, err
	}

	status, body, err := c.execute(req, "/cupones/validar")
	if err != nil {
		return nil, err
	}

	if status >= 500 {
		return nil, mapStatus(status, body)
	}

	var env envelope[*models.CouponValidation]

	if err := json.Unmarshal(body, &env); err != nil {
		return nil, appErrors.TransportError(msgUnexpected).WithError(err)
	}

	if env.Data != nil {
		return env.Data, nil
	}

	if status >= 400 {
		return nil, mapStatus(status, body)
	}

	return nil, appErrors.TransportError(msgUnexpected)
}
