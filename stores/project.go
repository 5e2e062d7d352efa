package stores

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/reusee/steina/targets"
)

// Project is the serialized project document.
type Project struct {
	VideoTargets []targets.SavedVideoTarget `json:"videoTargets"`
	AudioTargets []targets.SavedAudioTarget `json:"audioTargets"`
}

func ParseProject(data []byte) (*Project, error) {
	project := new(Project)
	if err := json.Unmarshal(data, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (p *Project) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

func LoadProjectFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseProject(data)
}

func LoadProjectURL(client *http.Client, url string) (*Project, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return ParseProject(data)
}
