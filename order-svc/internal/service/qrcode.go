package service

import (
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

type DefaultQRGenerator struct {
	BaseURL string
}

// Generate encodes a link to the customer tracking page of the order.
func (g DefaultQRGenerator) Generate(orderNumber string) ([]byte, error) {
	return qrcode.Encode(g.TrackingURL(orderNumber), qrcode.Medium, 256)
}

func (g DefaultQRGenerator) TrackingURL(orderNumber string) string {
	return strings.TrimRight(g.BaseURL, "/") + "/order-status/" + url.PathEscape(orderNumber)
}
