// Package evidence implements annotated screenshot capture: overlay markers
// drawn on the live page, one screenshot, markers removed. Overlay failures
// are logged and swallowed — a missing marker never blocks a finding.
package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/karthik-anand/webaudit/core"
	"github.com/karthik-anand/webaudit/logging"
)

// overlayContainerID marks the injected layer so removal can find it.
const overlayContainerID = "__webaudit_overlays__"

// injectScriptTemplate draws one bordered translucent box per rect inside a
// container sized to the document's scroll dimensions, so document-absolute
// coordinates need no viewport clipping. %s is the JSON rect array.
const injectScriptTemplate = `
((rects) => {
  const container = document.createElement('div');
  container.id = '%s';
  container.style.position = 'absolute';
  container.style.left = '0px';
  container.style.top = '0px';
  container.style.width = document.documentElement.scrollWidth + 'px';
  container.style.height = document.documentElement.scrollHeight + 'px';
  container.style.pointerEvents = 'none';
  container.style.zIndex = '2147483647';
  document.body.appendChild(container);
  rects.forEach(r => {
    const box = document.createElement('div');
    box.style.position = 'absolute';
    box.style.left = r.left + 'px';
    box.style.top = r.top + 'px';
    box.style.width = r.width + 'px';
    box.style.height = r.height + 'px';
    box.style.border = '2px solid red';
    box.style.background = 'rgba(255,0,0,0.12)';
    box.style.boxSizing = 'border-box';
    box.style.pointerEvents = 'none';
    container.appendChild(box);
    if (r.label) {
      const label = document.createElement('div');
      label.textContent = r.label;
      label.style.position = 'absolute';
      label.style.left = r.left + 'px';
      label.style.top = (r.top - 18) + 'px';
      label.style.fontSize = '12px';
      label.style.background = 'red';
      label.style.color = 'white';
      label.style.padding = '2px 4px';
      label.style.pointerEvents = 'none';
      container.appendChild(label);
    }
  });
  return true;
})(%s)`

const removeScript = `
(() => {
  const c = document.getElementById('%s');
  if (c) c.remove();
  return true;
})()`

// Capturer takes evidence screenshots into a scan-scoped directory.
type Capturer struct {
	browser core.Browser
	dir     string
	log     *logging.Logger
}

var _ core.Capturer = (*Capturer)(nil)

// New creates a Capturer writing screenshots under dir.
func New(browser core.Browser, dir string, log *logging.Logger) *Capturer {
	if log == nil {
		log = logging.Discard()
	}
	return &Capturer{browser: browser, dir: dir, log: log}
}

// Capture overlays the regions (or a synthetic banner when there are none
// but a label was given), screenshots the page, removes the overlay, and
// returns the screenshot file name. The screenshot error, if any, is
// returned so the caller can leave the finding's evidence absent.
func (c *Capturer) Capture(ctx context.Context, regions []core.Rect, tag, label string) (string, error) {
	if len(regions) == 0 && label != "" {
		// Every finding gets some visual marker.
		regions = []core.Rect{{Left: 10, Top: 10, Width: 300, Height: 30}}
	}
	if label != "" {
		for i := range regions {
			regions[i].Label = label
		}
	}

	injected := c.inject(ctx, regions, tag)

	name := ScreenshotName(tag)
	path := filepath.Join(c.dir, name)
	shotErr := c.browser.Screenshot(ctx, path)
	if shotErr != nil {
		c.log.Errorf("failed to save rule screenshot (%s): %v", tag, shotErr)
	} else {
		c.log.Debugf("rule screenshot saved: %s (rule=%s, overlays=%d)", path, tag, len(regions))
	}

	if injected {
		c.remove(ctx, tag)
	}

	if shotErr != nil {
		return "", shotErr
	}
	return name, nil
}

func (c *Capturer) inject(ctx context.Context, regions []core.Rect, tag string) bool {
	payload, err := json.Marshal(regions)
	if err != nil {
		c.log.Warnf("overlay encoding failed for rule %s: %v", tag, err)
		return false
	}
	var ok bool
	script := fmt.Sprintf(injectScriptTemplate, overlayContainerID, string(payload))
	if err := c.browser.Evaluate(ctx, script, &ok); err != nil {
		c.log.Warnf("overlay injection failed for rule %s: %v", tag, err)
		return false
	}
	return true
}

func (c *Capturer) remove(ctx context.Context, tag string) {
	var ok bool
	if err := c.browser.Evaluate(ctx, fmt.Sprintf(removeScript, overlayContainerID), &ok); err != nil {
		c.log.Warnf("failed to clean overlays for rule %s", tag)
	}
}

// ScreenshotName builds a collision-resistant file name for a capture tag.
func ScreenshotName(tag string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("screenshot_%s_%s.png", id, tag)
}
