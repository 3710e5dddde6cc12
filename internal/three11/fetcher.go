package three11

import (
	"archive/zip"
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"cityscout/internal/logger"
	sentryutil "cityscout/internal/sentry"
)

const fetchBodyLimit = 64 * 1024 * 1024

// FetchPayload downloads an endpoint's payload as text. ZIP payloads have
// their first CSV member extracted and decoded. Any failure surfaces as
// "no data", never as an error: discovery already committed to this endpoint
// and there is no retry.
func (s *Service) FetchPayload(endpoint string) (string, bool) {
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)

	resp, err := s.fetch.Do(req)
	if err != nil {
		// Discovery just validated this endpoint, so a failed download is an
		// anomaly worth tracking, not an expected miss.
		logger.Error("fetch: request failed", map[string]interface{}{"endpoint": endpoint, "error": err.Error()})
		sentryutil.CaptureError(err, map[string]string{"stage": "fetch", "endpoint": endpoint})
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Error("fetch: bad status", map[string]interface{}{"endpoint": endpoint, "status": resp.StatusCode})
		sentryutil.CaptureMessage("311 payload fetch returned bad status", sentryutil.LevelWarning(), map[string]string{
			"endpoint": endpoint, "status": strconv.Itoa(resp.StatusCode),
		})
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, fetchBodyLimit))
	if err != nil {
		logger.Error("fetch: read failed", map[string]interface{}{"endpoint": endpoint, "error": err.Error()})
		return "", false
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.HasSuffix(strings.ToLower(endpoint), ".zip") || strings.Contains(contentType, "application/zip") {
		logger.Info("fetch: zip payload, extracting csv", map[string]interface{}{"endpoint": endpoint})
		return extractZipCSV(body)
	}

	return string(body), true
}

// extractZipCSV opens a ZIP archive, picks the first .csv member, and decodes
// its bytes with the first encoding that accepts them.
func extractZipCSV(zipBytes []byte) (string, bool) {
	reader, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		logger.Error("fetch: not a readable zip", map[string]interface{}{"error": err.Error()})
		return "", false
	}

	for _, member := range reader.File {
		if !strings.HasSuffix(strings.ToLower(member.Name), ".csv") {
			continue
		}

		rc, err := member.Open()
		if err != nil {
			return "", false
		}
		raw, err := io.ReadAll(io.LimitReader(rc, fetchBodyLimit))
		rc.Close()
		if err != nil {
			return "", false
		}

		text, encodingName, ok := decodeWithFallback(raw)
		if !ok {
			logger.Error("fetch: no encoding decoded the csv", map[string]interface{}{"member": member.Name})
			return "", false
		}
		logger.Info("fetch: csv extracted", map[string]interface{}{
			"member": member.Name, "encoding": encodingName,
		})
		return text, true
	}

	logger.Error("fetch: zip contains no csv member", nil)
	return "", false
}

// decodeWithFallback tries UTF-8, then Windows-1252, then Latin-1. 1252 runs
// before Latin-1 because Latin-1 assigns every byte and would always succeed,
// masking smart-quote bytes that only 1252 maps correctly.
func decodeWithFallback(raw []byte) (string, string, bool) {
	if utf8.Valid(raw) {
		return string(raw), "utf-8", true
	}
	if text, ok := decodeCharmap(raw, charmap.Windows1252); ok {
		return text, "cp1252", true
	}
	if text, ok := decodeCharmap(raw, charmap.ISO8859_1); ok {
		return text, "latin-1", true
	}
	return "", "", false
}

func decodeCharmap(raw []byte, cm *charmap.Charmap) (string, bool) {
	out, err := cm.NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}
	// An undefined code point decodes to U+FFFD; treat that as a failed
	// decode so the next encoding in the chain gets a chance.
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}
