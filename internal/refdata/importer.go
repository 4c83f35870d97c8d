package refdata

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Importer converts an HTML food safety reference page into a foods.json
// table. Pages are expected to list foods under section headings: a "foods to
// avoid" section and one "safe foods" section per trimester, each followed by
// a list where items read "Name - benefit (allergens: a, b)".
type Importer struct {
	httpClient *http.Client
}

// NewImporter creates a new Importer instance.
func NewImporter() *Importer {
	return &Importer{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// ImportURL fetches the page, extracts the food table, and writes it to
// dataDir/foods.json. It returns the parsed guide.
func (im *Importer) ImportURL(url, dataDir string) (*FoodGuide, error) {
	resp, err := im.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reference page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch reference page: status %d", resp.StatusCode)
	}

	guide, err := im.Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	if err := writeFoodGuide(guide, dataDir); err != nil {
		return nil, err
	}
	return guide, nil
}

// Parse extracts a FoodGuide from an HTML document.
func (im *Importer) Parse(r io.Reader) (*FoodGuide, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reference HTML: %w", err)
	}

	// Strip noise before scanning headings
	doc.Find("script, style, nav, footer, iframe").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	guide := &FoodGuide{SafeFoods: map[string][]SafeFood{}}

	doc.Find("h1, h2, h3").Each(func(i int, heading *goquery.Selection) {
		title := strings.ToLower(strings.TrimSpace(heading.Text()))
		list := heading.NextFiltered("ul, ol")
		if list.Length() == 0 {
			return
		}

		switch {
		case strings.Contains(title, "avoid"):
			list.Find("li").Each(func(i int, item *goquery.Selection) {
				name := strings.TrimSpace(item.Text())
				if name != "" {
					guide.FoodsToAvoid = append(guide.FoodsToAvoid, strings.ToLower(name))
				}
			})
		case strings.Contains(title, "safe"):
			trimester := trimesterFromHeading(title)
			if trimester == 0 {
				return
			}
			key := trimesterKey(trimester)
			list.Find("li").Each(func(i int, item *goquery.Selection) {
				if food, ok := parseSafeFoodItem(item.Text()); ok {
					guide.SafeFoods[key] = append(guide.SafeFoods[key], food)
				}
			})
		}
	})

	if len(guide.FoodsToAvoid) == 0 && len(guide.SafeFoods) == 0 {
		return nil, fmt.Errorf("no food sections found in reference page")
	}
	return guide, nil
}

func trimesterFromHeading(title string) int {
	switch {
	case strings.Contains(title, "first"), strings.Contains(title, "trimester 1"):
		return 1
	case strings.Contains(title, "second"), strings.Contains(title, "trimester 2"):
		return 2
	case strings.Contains(title, "third"), strings.Contains(title, "trimester 3"):
		return 3
	}
	return 0
}

// parseSafeFoodItem splits "Name - benefit (allergens: a, b)" into a SafeFood.
func parseSafeFoodItem(text string) (SafeFood, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return SafeFood{}, false
	}

	var allergens []string
	if open := strings.LastIndex(text, "(allergens:"); open != -1 {
		inner := text[open+len("(allergens:"):]
		inner = strings.TrimSuffix(strings.TrimSpace(inner), ")")
		for _, a := range strings.Split(inner, ",") {
			if a = strings.TrimSpace(a); a != "" {
				allergens = append(allergens, strings.ToLower(a))
			}
		}
		text = strings.TrimSpace(text[:open])
	}

	name, benefit := text, ""
	if idx := strings.Index(text, " - "); idx != -1 {
		name = strings.TrimSpace(text[:idx])
		benefit = strings.TrimSpace(text[idx+3:])
	}
	if name == "" {
		return SafeFood{}, false
	}

	return SafeFood{Name: strings.ToLower(name), Benefit: benefit, Allergens: allergens}, true
}

func writeFoodGuide(guide *FoodGuide, dataDir string) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(guide, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal food guide: %w", err)
	}

	path := filepath.Join(dataDir, "foods.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write food guide: %w", err)
	}
	return nil
}
