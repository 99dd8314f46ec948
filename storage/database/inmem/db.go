// Package inmemdb keeps the app data in process memory; it backs the `memory` engine & the tests.
package inmemdb

import (
	"sync"

	"github.com/mrxclay666777/speakyz/core/inquiry"
)

type preferenceTable struct {
	mutex sync.RWMutex
	table map[string]map[string]string // {visitorID: {key: value}}
}

type inquiryTable struct {
	mutex sync.RWMutex
	table []inquiry.Inquiry
}

type DB struct {
	preference *preferenceTable
	inquiry    *inquiryTable
}

func NewDB() *DB {
	return &DB{
		preference: &preferenceTable{table: make(map[string]map[string]string)},
		inquiry:    &inquiryTable{},
	}
}
