package mockhal

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// DebugDump serializes the allocator's current state as a JSON document, in the shape a
// vendor implementation's dumpDebugInfo output might take.
func (a *Allocator) DebugDump() string {
	a.lock.Lock()
	defer a.lock.Unlock()

	w := jwriter.NewWriter()
	obj := w.Object()

	descriptors := obj.Name("descriptors").Array()
	for _, id := range sortedKeys(a.descriptors) {
		info := a.descriptors[id]
		descObj := descriptors.Object()
		descObj.Name("id").String(id)
		descObj.Name("width").Int(int(info.Width))
		descObj.Name("height").Int(int(info.Height))
		descObj.Name("layerCount").Int(int(info.LayerCount))
		descObj.Name("format").String(string(info.Format))
		descObj.End()
	}
	descriptors.End()

	var totalBytes int64
	buffers := obj.Name("buffers").Array()
	for _, id := range sortedKeys(a.buffers) {
		buf := a.buffers[id]
		totalBytes += buf.size
		bufObj := buffers.Object()
		bufObj.Name("id").String(id)
		bufObj.Name("descriptor").String(buf.descriptor)
		bufObj.Name("size").Int(int(buf.size))
		bufObj.Name("shared").Bool(buf.shared)
		bufObj.End()
	}
	buffers.End()

	obj.Name("allocatedBytes").Int(int(totalBytes))
	obj.End()

	return string(w.Bytes())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func postDump(sinkURL, dump string) error {
	resp, err := http.Post(sinkURL, "application/json", strings.NewReader(dump))
	if err != nil {
		return err
	}
	if resp.Body != nil {
		_ = resp.Body.Close()
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("dump sink returned HTTP %d", resp.StatusCode)
	}
	return nil
}
