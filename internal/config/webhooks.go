package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/branchpanel/internal/domain/model"
)

// webhookEntry is one item of the seed file.
type webhookEntry struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	Namespace string `yaml:"namespace"`
	Pipeline  string `yaml:"pipeline"`
}

type webhooksFile struct {
	Webhooks []webhookEntry `yaml:"webhooks"`
}

// LoadWebhooks reads the YAML seed file at path:
//
//	webhooks:
//	  - name: sample
//	    url: https://github.com/foo/bar
//	    namespace: tekton-pipelines
//	    pipeline: build-and-test
//
// Entries are returned as given; validation happens on registration.
func LoadWebhooks(path string) ([]model.Webhook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read webhooks file: %w", err)
	}

	return ParseWebhooks(data)
}

// ParseWebhooks decodes seed file content. Unknown keys are rejected so that
// typos do not silently drop a namespace or pipeline scope.
func ParseWebhooks(data []byte) ([]model.Webhook, error) {
	var file webhooksFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse webhooks file: %w", err)
	}

	webhooks := make([]model.Webhook, 0, len(file.Webhooks))
	for i, entry := range file.Webhooks {
		if entry.Name == "" || entry.URL == "" {
			return nil, fmt.Errorf("webhooks[%d]: name and url are required", i)
		}
		webhooks = append(webhooks, model.Webhook{
			Name:      entry.Name,
			URL:       entry.URL,
			Namespace: entry.Namespace,
			Pipeline:  entry.Pipeline,
		})
	}

	return webhooks, nil
}
