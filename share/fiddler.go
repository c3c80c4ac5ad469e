package share

import (
	"net"
	"net/http"
	"net/url"
	"time"
)

// NewHTTPClient returns the client used for Warcraft Logs calls. A local
// debugging proxy on 127.0.0.1:50000 is picked up when one is listening.
func NewHTTPClient() *http.Client {
	tr := &http.Transport{
		MaxConnsPerHost:       0,
		MaxIdleConns:          0,
		MaxIdleConnsPerHost:   64,
		ResponseHeaderTimeout: 10 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		IdleConnTimeout:       30 * time.Second,
		ExpectContinueTimeout: 30 * time.Second,
	}
	if conn, err := net.DialTimeout("tcp", "127.0.0.1:50000", 100*time.Millisecond); err == nil {
		conn.Close()

		u, _ := url.Parse("http://127.0.0.1:50000")
		tr.Proxy = http.ProxyURL(u)
	}

	return &http.Client{
		Timeout:   1 * time.Minute,
		Transport: tr,
	}
}
