// Package client talks to the tracker service over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/xyfu66/score-following-app/model"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: http.DefaultClient}
}

// StreamURL is the websocket address positions are streamed from
func (c *Client) StreamURL() (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", errors.Wrapf(err, "bad server url %q", c.BaseURL)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	return u.String(), nil
}

// Upload sends a score and, if performance is not empty, a performance recording
func (c *Client) Upload(ctx context.Context, filename string, score, performance []byte) (*model.UploadResponse, error) {
	body := new(bytes.Buffer)
	form := multipart.NewWriter(body)
	if err := addFile(form, "file", filename, score); err != nil {
		return nil, err
	}
	if len(performance) > 0 {
		if err := addFile(form, "performance", "performance.mid", performance); err != nil {
			return nil, err
		}
	}
	if err := form.Close(); err != nil {
		return nil, errors.Wrap(err, "could not build upload form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload", body)
	if err != nil {
		return nil, errors.Wrap(err, "could not build upload request")
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var res model.UploadResponse
	if err := c.do(req, &res); err != nil {
		return nil, errors.Wrap(err, "upload failed")
	}
	return &res, nil
}

func (c *Client) MidiDevices(ctx context.Context) ([]model.Device, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/midi-devices", nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not build devices request")
	}
	var res model.DevicesResponse
	if err := c.do(req, &res); err != nil {
		return nil, errors.Wrap(err, "could not list midi devices")
	}
	return res.Devices, nil
}

func addFile(form *multipart.Writer, field, filename string, dat []byte) error {
	part, err := form.CreateFormFile(field, filename)
	if err != nil {
		return errors.Wrapf(err, "could not add %v", field)
	}
	_, err = part.Write(dat)
	return errors.Wrapf(err, "could not add %v", field)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	dat, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode != http.StatusOK {
		var e model.ErrorResponse
		if json.Unmarshal(dat, &e) == nil && e.Error != "" {
			return errors.Errorf("%v: %v", res.Status, e.Error)
		}
		return errors.New(res.Status)
	}
	return json.Unmarshal(dat, out)
}
