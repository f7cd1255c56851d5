package web

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/sirupsen/logrus"
)

// newAPIProxy 把 /api/v1/* 原样转发给上游，浏览器与服务端看到同一个源
func newAPIProxy(target string, log logrus.FieldLogger) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api proxy target %q", target)
	}

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(u)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.WithError(err).WithField("path", r.URL.Path).Warn("⚠️ API 代理失败")
			w.WriteHeader(http.StatusBadGateway)
		},
	}, nil
}
