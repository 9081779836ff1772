package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/fulldump/apitest"
)

const examplesHost = "lockerdesk.example.com"

// Save renders a request/response pair as markdown into API_EXAMPLES_PATH.
// It does nothing when the variable is not set.
func Save(response *apitest.Response, title, description string) {

	examplesPath := os.Getenv("API_EXAMPLES_PATH")
	if examplesPath == "" {
		return
	}

	filename := strings.ReplaceAll(strings.ToLower(title), " ", "_") + ".md"
	p := path.Join(examplesPath, path.Clean(filename))

	err := os.WriteFile(p, []byte(renderExample(response, title, description)), 0666)
	if err != nil {
		fmt.Println("Saving err:", err)
		return
	}
	fmt.Println("Saving", p)
}

func renderExample(response *apitest.Response, title, description string) string {

	request := response.Request

	query := request.URL.RawQuery
	if query != "" {
		query = "?" + query
	}
	target := request.URL.Path + query
	requestBody := formatJSON(response.BodyRequestString())

	s := &strings.Builder{}

	fmt.Fprintf(s, "# %s\n", title)
	fmt.Fprintf(s, "%s\n", cropTabs(description))

	// Curl
	s.WriteString("Curl example:\n\n```sh\ncurl ")
	if request.Method != "GET" {
		fmt.Fprintf(s, "-X %s ", request.Method)
	}
	fmt.Fprintf(s, "\"https://%s%s\"", examplesHost, target)
	for _, k := range sortedKeys(request.Header) {
		for _, v := range request.Header[k] {
			fmt.Fprintf(s, " \\\n-H \"%s: %s\"", k, v)
		}
	}
	if requestBody != "" {
		fmt.Fprintf(s, " \\\n-d '%s'", requestBody)
	}
	s.WriteString("\n```\n\n\n")

	// Raw HTTP
	s.WriteString("HTTP request/response example:\n\n```http\n")
	fmt.Fprintf(s, "%s %s %s\n", request.Method, target, request.Proto)
	fmt.Fprintf(s, "Host: %s\n", examplesHost)
	for _, k := range sortedKeys(request.Header) {
		for _, v := range request.Header[k] {
			fmt.Fprintf(s, "%s: %s\n", k, v)
		}
	}
	fmt.Fprintf(s, "\n%s\n\n", requestBody)

	fmt.Fprintf(s, "%s %s\n", response.Proto, response.Status)
	for _, k := range sortedKeys(response.Header) {
		if k == "Date" {
			s.WriteString("Date: Mon, 15 Aug 2022 02:08:13 GMT\n")
			continue
		}
		for _, v := range response.Header[k] {
			fmt.Fprintf(s, "%s: %s\n", k, v)
		}
	}
	fmt.Fprintf(s, "\n%s\n```\n\n\n", formatJSON(response.BodyString()))

	return s.String()
}

func sortedKeys(header map[string][]string) []string {
	keys := make([]string, 0, len(header))
	for k := range header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatJSON(body string) string {

	var i interface{}
	if err := json.Unmarshal([]byte(body), &i); err != nil {
		return body
	}

	b, err := json.MarshalIndent(i, "", "    ")
	if err != nil {
		return body
	}

	return string(b)
}

// cropTabs removes the common tab indentation of a raw string literal.
func cropTabs(d string) string {

	lines := strings.Split(d, "\n")

	body := lines
	if len(lines) > 2 {
		body = lines[1 : len(lines)-1]
	}

	minTabs := -1
	for _, line := range body {
		if strings.TrimSpace(line) == "" {
			continue
		}
		c := len(line) - len(strings.TrimLeft(line, "\t"))
		if minTabs < 0 || c < minTabs {
			minTabs = c
		}
	}
	if minTabs <= 0 {
		return d
	}

	prefix := strings.Repeat("\t", minTabs)
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}

	return strings.Join(lines, "\n")
}
