package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"path/filepath"
	"strings"
	"time"
)

// ImageObjectKey builds a farmer-scoped, timestamp-derived storage key such as
// product-images/<farmer>/20240102-150405-123-0042.jpg.
func ImageObjectKey(farmerID, filename string) string {
	now := time.Now().UTC()
	datePart := now.Format("20060102-150405")
	millis := now.Nanosecond() / int(time.Millisecond)

	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		n = big.NewInt(now.UnixNano() % 10000)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		ext = "bin"
	}

	prefix := "product-images"
	if farmerID != "" {
		prefix += "/" + farmerID
	}

	return fmt.Sprintf("%s/%s-%03d-%04d.%s", prefix, datePart, millis, n.Int64(), ext)
}
