package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Instances is a COCO Instances document.
type Instances struct {
	Images      []Image      `json:"images"`
	Annotations []Annotation `json:"annotations"`
	Categories  []Category   `json:"categories"`
}

// Image is a COCO image record. FileName is the join key to Annofab's input_data_name.
type Image struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Category is a COCO category record. Name is the join key to Annofab's label.
type Category struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Supercategory string `json:"supercategory,omitempty"`
}

// Annotation is a COCO annotation record.
type Annotation struct {
	ID           int64        `json:"id"`
	ImageID      int64        `json:"image_id"`
	CategoryID   int64        `json:"category_id"`
	BBox         []float64    `json:"bbox"`
	Segmentation Segmentation `json:"segmentation"`
	Area         float64      `json:"area"`
	IsCrowd      int          `json:"iscrowd"`
}

// Segmentation is the COCO segmentation field: polygons when iscrowd=0, RLE when iscrowd=1.
// Exactly one of Polygons and RLE is meaningful; RLE takes precedence when non-nil.
type Segmentation struct {
	Polygons [][]float64
	RLE      *RLE
}

// IsRLE reports whether the segmentation is run-length encoded.
func (s Segmentation) IsRLE() bool {
	return s.RLE != nil
}

// MarshalJSON writes either the polygon list or the RLE object.
func (s Segmentation) MarshalJSON() ([]byte, error) {
	if s.RLE != nil {
		return json.Marshal(s.RLE)
	}
	if s.Polygons == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.Polygons)
}

// UnmarshalJSON accepts an RLE object, a list of polygons or a single flat polygon.
func (s *Segmentation) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*s = Segmentation{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	switch b[0] {
	case '{':
		var r RLE
		if err := json.Unmarshal(b, &r); err != nil {
			return err
		}
		s.RLE = &r
		return nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		if len(items) == 0 {
			s.Polygons = [][]float64{}
			return nil
		}
		if first := bytes.TrimSpace(items[0]); len(first) > 0 && first[0] == '[' {
			return json.Unmarshal(b, &s.Polygons)
		}
		var flat []float64
		if err := json.Unmarshal(b, &flat); err != nil {
			return err
		}
		s.Polygons = [][]float64{flat}
		return nil
	default:
		return fmt.Errorf("%w: unexpected segmentation %s", ErrInvalidInput, truncate(b, 32))
	}
}

// RLE is a COCO run-length encoding of a binary mask.
// Counts holds the uncompressed form; CompressedCounts the compressed string form.
type RLE struct {
	// Size is [height, width].
	Size             [2]int
	Counts           []int
	CompressedCounts string
}

// Height returns the mask height.
func (r *RLE) Height() int { return r.Size[0] }

// Width returns the mask width.
func (r *RLE) Width() int { return r.Size[1] }

// IsCompressed reports whether the counts are in the compressed string form.
func (r *RLE) IsCompressed() bool {
	return r.Counts == nil && r.CompressedCounts != ""
}

type rleJSON struct {
	Size   [2]int          `json:"size"`
	Counts json.RawMessage `json:"counts"`
}

// MarshalJSON writes {"size": [h, w], "counts": ...}.
func (r RLE) MarshalJSON() ([]byte, error) {
	var counts []byte
	var err error
	if r.IsCompressed() {
		counts, err = json.Marshal(r.CompressedCounts)
	} else {
		c := r.Counts
		if c == nil {
			c = []int{}
		}
		counts, err = json.Marshal(c)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(rleJSON{Size: r.Size, Counts: counts})
}

// UnmarshalJSON accepts both integer-list and string counts.
func (r *RLE) UnmarshalJSON(b []byte) error {
	var raw rleJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*r = RLE{Size: raw.Size}
	counts := bytes.TrimSpace(raw.Counts)
	if len(counts) == 0 {
		return fmt.Errorf("%w: rle has no counts", ErrInvalidRLE)
	}
	if counts[0] == '"' {
		return json.Unmarshal(counts, &r.CompressedCounts)
	}
	return json.Unmarshal(counts, &r.Counts)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
