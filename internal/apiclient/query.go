package apiclient

import (
	"net/url"
	"strconv"
)

// pageQuery renders limit/offset as a query string. Zero values are left out
// and an empty set yields "".
func pageQuery(limit, offset int, extra url.Values) string {
	v := url.Values{}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		v.Set("offset", strconv.Itoa(offset))
	}
	for k, vs := range extra {
		for _, s := range vs {
			if s != "" {
				v.Add(k, s)
			}
		}
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func segment(id string) string {
	return "/" + url.PathEscape(id)
}
