// Package unity implements a client for the XboxUnity title database,
// used to resolve a title id into a human-readable game title.
package unity

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hansbonini/godtools/pkg/common"
)

const defaultBaseURL = "http://xboxunity.net"

// Title is one entry of an XboxUnity title list response
type Title struct {
	TitleID     string `json:"TitleID"`
	HBTitleID   string `json:"HBTitleID"`
	Name        string `json:"Name"`
	TitleType   string `json:"TitleType"`
	LinkEnabled string `json:"LinkEnabled"`
}

// titleTypeXbox360 is the TitleType value of Xbox 360 entries
const titleTypeXbox360 = "360"

// TitleList is the XboxUnity search response envelope
type TitleList struct {
	Items []Title `json:"Items"`
}

// Client queries the XboxUnity title database
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client with a bounded request timeout
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
	}
}

// FindXbox360Title searches XboxUnity for the given title id and returns the
// matching Xbox 360 entry, or nil when the service has none.
func (c *Client) FindXbox360Title(titleID uint32) (*Title, error) {
	search := fmt.Sprintf("%08X", titleID)

	query := url.Values{
		"search":    {search},
		"page":      {"0"},
		"count":     {"10"},
		"sort":      {"3"},
		"direction": {"1"},
	}
	endpoint := c.baseURL + "/Resources/Lib/TitleList.php?" + query.Encode()

	response, err := c.httpClient.Get(endpoint)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToQueryUnity, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %s", common.ErrFailedToQueryUnity, response.Status)
	}

	var list TitleList
	if err := json.NewDecoder(response.Body).Decode(&list); err != nil {
		return nil, common.FormatError(common.ErrFailedToQueryUnity, err)
	}
	common.LogDebug(common.DebugUnityResponse, len(list.Items))

	for i := range list.Items {
		item := &list.Items[i]
		if item.TitleType == titleTypeXbox360 && strings.EqualFold(item.TitleID, search) {
			return item, nil
		}
	}
	return nil, nil
}
