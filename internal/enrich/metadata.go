package enrich

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

// imageExtensions are treated as direct image links, not metadata JSON.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg"}

// knownImageCDNs are hosts known to serve images directly regardless of
// file extension (IPFS gateways, Arweave, pump.fun's own CDN).
var knownImageCDNs = []string{
	"ipfs.io", "cloudflare-ipfs.com", "arweave.net", "pump.mypinata.cloud",
	"cf-ipfs.com", "nftstorage.link",
}

func hasImageExtension(uri string) bool {
	lower := strings.ToLower(uri)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func isKnownCDN(uri string) bool {
	lower := strings.ToLower(uri)
	for _, host := range knownImageCDNs {
		if strings.Contains(lower, host) {
			return true
		}
	}
	return false
}

// metadataImage holds the subset of a token metadata JSON document this
// fetch cares about.
type metadataImage struct {
	Image string `json:"image"`
}

// fetchMetadataImage fetches uri as a metadata JSON document and returns its
// image field, within timeout. Empty on any failure — never blocks the
// orchestrator past its deadline for a cosmetic field.
func fetchMetadataImage(ctx context.Context, uri string, timeout time.Duration) string {
	if uri == "" {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return ""
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ""
	}
	var m metadataImage
	if err := json.Unmarshal(body, &m); err != nil {
		return ""
	}
	return m.Image
}
