package download

import (
	"net/url"
	"regexp"
	"time"
)

// DefaultPrefix starts every generated file name.
const DefaultPrefix = "导出_"

var (
	encodedFilename = regexp.MustCompile(`(?i)filename\*=UTF-8''([^;]+)`)
	legacyFilename  = regexp.MustCompile(`(?i)filename="?([^;"]*)"?`)
)

// shanghai is the zone generated names are stamped in. Hosts without
// tzdata fall back to the fixed UTC+8 offset, which is identical since
// the zone observes no DST.
var shanghai = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		return time.FixedZone("CST", 8*60*60)
	}
	return loc
}()

// Filename resolves the name for a downloaded blob. A non-empty override
// always wins. Otherwise the RFC 5987 filename* parameter of disposition
// is percent-decoded, then the legacy filename parameter is used as-is,
// and finally DefaultFilename(now) is returned.
func Filename(disposition, override string, now time.Time) string {
	if override != "" {
		return override
	}

	if disposition != "" {
		if m := encodedFilename.FindStringSubmatch(disposition); m != nil && m[1] != "" {
			if name, err := url.PathUnescape(m[1]); err == nil {
				return name
			}
		}

		if m := legacyFilename.FindStringSubmatch(disposition); m != nil && m[1] != "" {
			return m[1]
		}
	}

	return DefaultFilename(now)
}

// DefaultFilename returns DefaultPrefix followed by now as yyyyMMddHHmmss
// in Asia/Shanghai.
func DefaultFilename(now time.Time) string {
	return DefaultPrefix + now.In(shanghai).Format("20060102150405")
}
