// Package news surfaces recent local headlines as POIs near the user's
// location, via the Google News RSS feed for the city.
package news

import (
	"context"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"cityscout/internal/logger"
	"cityscout/internal/models"
	sentryutil "cityscout/internal/sentry"
)

const googleNewsRSS = "https://news.google.com/rss/search"

// Client fetches and parses city news feeds.
type Client struct {
	BaseURL string
	Parser  *gofeed.Parser
	Timeout time.Duration
}

func New(timeout time.Duration) *Client {
	return &Client{
		BaseURL: googleNewsRSS,
		Parser:  gofeed.NewParser(),
		Timeout: timeout,
	}
}

// News stories carry no coordinates of their own; they are placed in a small
// ring around the user so the map can show them without stacking.
var newsOffsets = [][2]float64{
	{0.004, 0.004}, {-0.004, 0.004}, {0.004, -0.004}, {-0.004, -0.004},
	{0.008, 0.0}, {-0.008, 0.0}, {0.0, 0.008}, {0.0, -0.008},
}

// GetPOIs returns recent headlines mentioning the city as POIs near the
// user's position. Feed failures degrade to an empty list.
func (c *Client) GetPOIs(city, province string, userLat, userLon float64, maxPOIs int) []models.POI {
	query := url.Values{"q": {city + " " + province}}
	feedURL := c.BaseURL + "?" + query.Encode()

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	feed, err := c.Parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		logger.Error("news: feed fetch failed", map[string]interface{}{"error": err.Error()})
		sentryutil.CaptureError(err, map[string]string{"stage": "news", "city": city})
		return []models.POI{}
	}

	var pois []models.POI
	for i, item := range feed.Items {
		if len(pois) >= maxPOIs || i >= len(newsOffsets) {
			break
		}

		summary := item.Title
		if item.Description != "" {
			summary = item.Description
		}

		published := ""
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.Format("2006-01-02")
		}

		pois = append(pois, models.POI{
			Name:         item.Title,
			Lat:          userLat + newsOffsets[i][0],
			Lng:          userLon + newsOffsets[i][1],
			Type:         "news",
			Summary:      summary,
			Source:       "news_rss",
			URL:          item.Link,
			CreationDate: published,
		})
	}

	logger.Info("news: fetched", map[string]interface{}{"city": city, "pois": len(pois)})
	return pois
}
