// Package servicetest holds fakes shared by handler and service tests.
package servicetest

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// FakePresigner stands in for the MinIO client and records every call.
type FakePresigner struct {
	PutCalls        int
	GetCalls        int
	LastObjectName  string
	LastContentType string
	Err             error
}

func (f *FakePresigner) PresignHeader(_ context.Context, method, bucketName, objectName string, _ time.Duration, _ url.Values, extraHeaders http.Header) (*url.URL, error) {
	f.PutCalls++
	f.LastObjectName = objectName
	f.LastContentType = extraHeaders.Get("Content-Type")
	if f.Err != nil {
		return nil, f.Err
	}
	return url.Parse("https://store.example/" + bucketName + "/" + url.PathEscape(objectName) + "?X-Amz-Signature=" + method)
}

func (f *FakePresigner) PresignedGetObject(_ context.Context, bucketName, objectName string, _ time.Duration, _ url.Values) (*url.URL, error) {
	f.GetCalls++
	f.LastObjectName = objectName
	if f.Err != nil {
		return nil, f.Err
	}
	return url.Parse("https://store.example/" + bucketName + "/" + url.PathEscape(objectName) + "?X-Amz-Signature=GET")
}
