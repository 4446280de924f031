package httpapi

import "strings"

const uiSuffix = "/ui"

func normalizeBasePath(value string) string {
	path := strings.TrimSpace(value)
	if path == "" || path == "/" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	path = strings.TrimRight(path, "/")
	if path == "/" {
		return ""
	}
	return path
}

// basePathFromUI derives the API prefix from the path the operator UI is
// served under. The server mounts the UI at <base>/ui/.
func basePathFromUI(uiPath string) string {
	path := normalizeBasePath(uiPath)
	if path == uiSuffix {
		return ""
	}
	return strings.TrimSuffix(path, uiSuffix)
}

// resolveBasePath prefers an explicit base path over one derived from the UI path.
func resolveBasePath(cfg Config) string {
	if strings.TrimSpace(cfg.BasePath) != "" {
		return normalizeBasePath(cfg.BasePath)
	}
	return basePathFromUI(cfg.UIPath)
}

func buildBaseHref(baseURL, basePath string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	path := normalizeBasePath(basePath)
	if base == "" && path == "" {
		return ""
	}
	if base == "" {
		return ensureTrailingSlash(path)
	}
	return ensureTrailingSlash(base + path)
}

func ensureTrailingSlash(value string) string {
	if value == "" {
		return ""
	}
	if strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}
