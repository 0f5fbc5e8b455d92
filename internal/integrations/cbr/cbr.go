package cbr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/bank-ledger/internal/config"
	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CBRClient fetches official exchange rates from the Central Bank of Russia
type CBRClient struct {
	url    string
	client *http.Client
	log    *logrus.Logger
	now    func() time.Time
}

// NewCBRClient initializes a new CBR client
func NewCBRClient(cfg *config.Config, log *logrus.Logger) *CBRClient {
	return &CBRClient{
		url: cfg.CBRURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
		now: time.Now,
	}
}

// buildSOAPRequest creates a SOAP request for the rates on the given day
func (c *CBRClient) buildSOAPRequest(on time.Time) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
		<soap12:Envelope xmlns:soap12="http://www.w3.org/2003/05/soap-envelope">
			<soap12:Body>
				<GetCursOnDate xmlns="http://web.cbr.ru/">
					<On_date>%s</On_date>
				</GetCursOnDate>
			</soap12:Body>
		</soap12:Envelope>`, on.Format("2006-01-02"))
}

// sendRequest sends SOAP request to CBR
func (c *CBRClient) sendRequest(ctx context.Context, soapRequest string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBufferString(soapRequest))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/soap+xml; charset=utf-8")
	req.Header.Set("SOAPAction", "http://web.cbr.ru/GetCursOnDate")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debugf("CBR XML response: %s", string(body))
	return body, nil
}

// parseXMLResponse extracts the rates of supported currencies
func (c *CBRClient) parseXMLResponse(rawBody []byte, on time.Time) ([]models.ExchangeRate, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	elements := doc.FindElements("//ValuteData/ValuteCursOnDate")
	if len(elements) == 0 {
		return nil, fmt.Errorf("no exchange rate data found in XML")
	}

	rates := []models.ExchangeRate{}
	for _, el := range elements {
		code := el.FindElement("./VchCode")
		curs := el.FindElement("./Vcurs")
		nom := el.FindElement("./Vnom")
		if code == nil || curs == nil || nom == nil {
			continue
		}

		currency := models.Currency(strings.TrimSpace(code.Text()))
		if !currency.Valid() {
			continue
		}

		rate, err := decimal.NewFromString(strings.TrimSpace(curs.Text()))
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate for %s: %w", currency, err)
		}
		nominal, err := strconv.ParseInt(strings.TrimSpace(nom.Text()), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse nominal for %s: %w", currency, err)
		}

		rates = append(rates, models.ExchangeRate{
			Currency: currency,
			Nominal:  nominal,
			Rate:     rate,
			Date:     on,
		})
	}
	return rates, nil
}

// GetRates retrieves today's rates for the supported account currencies
func (c *CBRClient) GetRates(ctx context.Context) ([]models.ExchangeRate, error) {
	on := c.now().UTC().Truncate(24 * time.Hour)
	body, err := c.sendRequest(ctx, c.buildSOAPRequest(on))
	if err != nil {
		return nil, err
	}

	rates, err := c.parseXMLResponse(body, on)
	if err != nil {
		return nil, err
	}

	c.log.Infof("Retrieved %d exchange rates for %s", len(rates), on.Format("2006-01-02"))
	return rates, nil
}
