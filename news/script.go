package news

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/magnate/market"
)

// ListSeparator joins multi-headline entries from a news file.
const ListSeparator = "；"

// Script maps a calendar day (YYYY-MM-DD) to display-only headline text.
// Scripted headlines never move the price.
type Script map[string]string

// BuiltinScript returns the 2008 crisis headlines.
func BuiltinScript() Script {
	return Script{
		"2008-09-07": "US government takes over Fannie Mae and Freddie Mac; safe-haven demand rises. (bullish for gold)",
		"2008-09-15": "Lehman Brothers files for bankruptcy; the global financial crisis erupts. (strongly bullish for gold)",
		"2008-09-16": "Federal Reserve injects massive liquidity into the markets. (bullish for gold)",
		"2008-09-29": "US House rejects the $700 billion bailout bill. (strongly bullish for gold)",
	}
}

// Merge returns a new script with other's entries layered over s.
func (s Script) Merge(other Script) Script {
	out := make(Script, len(s)+len(other))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// LoadScriptFile reads a JSON object of date -> headline. A value may be a
// string or a list, which is joined with ListSeparator.
func LoadScriptFile(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

func ParseScript(data []byte) (Script, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse news file: %w", err)
	}

	s := make(Script, len(raw))
	for k, v := range raw {
		day, err := time.Parse(market.DateLayout, strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("news file: bad date key %q: %w", k, err)
		}

		var text string
		switch val := v.(type) {
		case string:
			text = val
		case []any:
			parts := make([]string, len(val))
			for i, item := range val {
				parts[i] = fmt.Sprint(item)
			}
			text = strings.Join(parts, ListSeparator)
		case nil:
			continue
		default:
			text = fmt.Sprint(val)
		}
		s[day.Format(market.DateLayout)] = text
	}
	return s, nil
}
