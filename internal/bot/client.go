package bot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// API is the slice of the Telegram client the dispatcher needs. Tests swap
// in a recording fake.
type API interface {
	SendMessage(chatID int64, text string) error
	SendVideo(chatID int64, path string) error
	Me() (*User, error)
}

type Client struct {
	token   string
	httpc   *http.Client
	uploadc *http.Client
	apiURL  string
}

func NewClient(token string) *Client {
	return &Client{
		token:  token,
		apiURL: "https://api.telegram.org/bot" + token,
		// Long polling holds the connection open for up to pollTimeout
		// seconds, so the client timeout must sit above it.
		httpc: &http.Client{Timeout: 40 * time.Second},
		// Video uploads can take a while; they get their own, far looser
		// timeout.
		uploadc: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (c *Client) send(method string, payload any, out any) error {
	b, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", c.apiURL+"/"+method, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("telegram %s: %s", method, resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) SendMessage(chatID int64, text string) error {
	return c.send("sendMessage", map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	}, nil)
}

// SendVideo uploads a local file as a video reply. Telegram only accepts
// local files via multipart, not the JSON API.
func (c *Client) SendVideo(chatID int64, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return err
	}
	part, err := mw.CreateFormFile("video", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, _ := http.NewRequest("POST", c.apiURL+"/sendVideo", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.uploadc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("telegram sendVideo: %s", resp.Status)
	}
	return nil
}

func (c *Client) Me() (*User, error) {
	var out struct {
		OK     bool  `json:"ok"`
		Result *User `json:"result"`
	}
	if err := c.send("getMe", map[string]any{}, &out); err != nil {
		return nil, err
	}
	if !out.OK || out.Result == nil {
		return nil, fmt.Errorf("telegram getMe: not ok")
	}
	return out.Result, nil
}

// GetUpdates long-polls for new updates starting at offset.
func (c *Client) GetUpdates(offset int64, timeoutSec int) ([]Update, error) {
	var out struct {
		OK     bool     `json:"ok"`
		Result []Update `json:"result"`
	}
	err := c.send("getUpdates", map[string]any{
		"offset":          offset,
		"timeout":         timeoutSec,
		"allowed_updates": []string{"message"},
	}, &out)
	if err != nil {
		return nil, err
	}
	if !out.OK {
		return nil, fmt.Errorf("telegram getUpdates: not ok")
	}
	return out.Result, nil
}
