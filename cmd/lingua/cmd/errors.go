package cmd

import "errors"

var (
	ErrUnknownLanguage = errors.New("lingua: language is not configured")
	ErrNoStorage       = errors.New("lingua: object storage is not configured")
	ErrNoCatalogTarget = errors.New("lingua: neither database_url nor redis_url is configured")
)
