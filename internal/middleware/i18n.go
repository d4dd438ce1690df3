package middleware

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"ouroz/internal/infra/geoip"
)

type localeContextKey struct{}
type countryContextKey struct{}
type locationContextKey struct{}

var (
	LocaleKey   = localeContextKey{}
	CountryKey  = countryContextKey{}
	LocationKey = locationContextKey{}
)

// SupportedLocales are the reply languages the gateway offers.
var SupportedLocales = []language.Tag{language.English, language.French, language.Arabic}

var localeMatcher = language.NewMatcher(SupportedLocales)

// French-speaking Maghreb markets default to French, Gulf and Levant markets
// to Arabic.
var countryLocales = map[string]string{
	"MA": "fr", "DZ": "fr", "TN": "fr", "FR": "fr", "BE": "fr", "SN": "fr", "CI": "fr",
	"SA": "ar", "AE": "ar", "QA": "ar", "KW": "ar", "EG": "ar", "JO": "ar", "OM": "ar", "BH": "ar",
}

// I18N resolves the caller's locale, country and coarse location. locator
// may be nil, in which case only request headers are consulted.
func I18N(defaultLocale string, locator geoip.Locator) func(http.Handler) http.Handler {
	fallback := matchLocale(defaultLocale)
	if fallback == "" {
		fallback = "en"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			var loc geoip.Location
			var located bool
			if locator != nil {
				if ip := ClientIP(r); ip != "" {
					if found, err := locator.Locate(ip); err == nil {
						loc, located = found, true
						ctx = context.WithValue(ctx, LocationKey, found)
					}
				}
			}

			country := ResolveCountry(r)
			if country == "" && located {
				country = strings.ToUpper(loc.CountryCode)
			}
			if country != "" {
				ctx = context.WithValue(ctx, CountryKey, country)
			}
			ctx = context.WithValue(ctx, LocaleKey, detectLocale(r, fallback, country))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, fallback string, country string) string {
	if v := matchLocale(r.Header.Get("X-Locale")); v != "" {
		return v
	}
	if v := matchAcceptLanguage(r.Header.Get("Accept-Language")); v != "" {
		return v
	}
	if v, ok := countryLocales[strings.ToUpper(country)]; ok {
		return v
	}
	if fallback != "" {
		return fallback
	}
	return "en"
}

// matchLocale maps a single BCP 47 tag onto a supported locale.
func matchLocale(raw string) string {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "_", "-"))
	if raw == "" {
		return ""
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return ""
	}
	return matchTags(tag)
}

func matchAcceptLanguage(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	return matchTags(tags...)
}

func matchTags(tags ...language.Tag) string {
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return ""
	}
	base, _ := SupportedLocales[idx].Base()
	return base.String()
}

func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		return v
	}
	return "en"
}

// CountryFromContext returns the ISO country code stored in the request context.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CountryKey).(string); ok {
		return v
	}
	return ""
}

// LocationFromContext returns the GeoIP location of the caller, if resolved.
func LocationFromContext(ctx context.Context) (geoip.Location, bool) {
	loc, ok := ctx.Value(LocationKey).(geoip.Location)
	return loc, ok
}

// ResolveCountry returns the country hinted by proxy headers or a regional
// locale tag.
func ResolveCountry(r *http.Request) string {
	if r == nil {
		return ""
	}
	headerHints := []string{"X-Country-Code", "X-IP-Country", "CF-IPCountry", "X-Appengine-Country"}
	for _, key := range headerHints {
		if val := strings.TrimSpace(r.Header.Get(key)); val != "" {
			return strings.ToUpper(val)
		}
	}
	if region := localeRegion(r.Header.Get("X-Locale")); region != "" {
		return region
	}
	return localeRegion(r.Header.Get("Accept-Language"))
}

func localeRegion(accept string) string {
	for _, part := range strings.Split(accept, ",") {
		token, _, _ := strings.Cut(part, ";")
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if idx := strings.IndexAny(token, "-_"); idx > 0 && idx < len(token)-1 {
			region := token[idx+1:]
			if len(region) == 2 {
				return strings.ToUpper(region)
			}
		}
	}
	return ""
}
