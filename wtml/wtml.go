// Package wtml renders the WTML record that describes a TOAST pyramid to
// WorldWide-Telescope-style viewers.
package wtml

import (
	"encoding/xml"
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/perimeterx/marshmallow"
)

// ImageSet holds the descriptive fields of a pyramid's WTML record.
type ImageSet struct {
	FolderName   string `default:"Toastel" json:"folderName"`
	Name         string `default:"Toastel map" json:"name"`
	BandPass     string `default:"Visible" validate:"oneof=Gamma XRay Ultraviolet Visible HydrogenAlpha IR Microwave Radio" json:"bandPass"`
	Credits      string `default:"Toastel" json:"credits"`
	CreditsURL   string `validate:"omitempty,url" json:"creditsUrl"`
	ThumbnailURL string `validate:"omitempty,url" json:"thumbnailUrl"`
}

// Load reads an ImageSet description from JSON. Unknown keys are tolerated
// and missing ones fall back to the defaults.
func Load(data []byte) (ImageSet, error) {
	var is ImageSet
	if err := defaults.Set(&is); err != nil {
		return is, err
	}
	if _, err := marshmallow.Unmarshal(data, &is, marshmallow.WithExcludeKnownFieldsFromMap(true)); err != nil {
		return is, err
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(is); err != nil {
		return is, err
	}
	return is, nil
}

type folderXML struct {
	XMLName  xml.Name    `xml:"Folder"`
	Name     string      `xml:"Name,attr"`
	ImageSet imageSetXML `xml:"ImageSet"`
}

type imageSetXML struct {
	Generic            string   `xml:"Generic,attr"`
	DataSetType        string   `xml:"DataSetType,attr"`
	BandPass           string   `xml:"BandPass,attr"`
	Name               string   `xml:"Name,attr"`
	URL                string   `xml:"Url,attr"`
	BaseTileLevel      int      `xml:"BaseTileLevel,attr"`
	TileLevels         int      `xml:"TileLevels,attr"`
	BaseDegreesPerTile string   `xml:"BaseDegreesPerTile,attr"`
	FileType           string   `xml:"FileType,attr"`
	BottomsUp          string   `xml:"BottomsUp,attr"`
	Projection         string   `xml:"Projection,attr"`
	QuadTreeMap        string   `xml:"QuadTreeMap,attr"`
	CenterX            string   `xml:"CenterX,attr"`
	CenterY            string   `xml:"CenterY,attr"`
	OffsetX            string   `xml:"OffsetX,attr"`
	OffsetY            string   `xml:"OffsetY,attr"`
	Rotation           string   `xml:"Rotation,attr"`
	Sparse             string   `xml:"Sparse,attr"`
	ElevationModel     string   `xml:"ElevationModel,attr"`
	Credits            string   `xml:"Credits"`
	CreditsURL         string   `xml:"CreditsUrl"`
	ThumbnailURL       string   `xml:"ThumbnailUrl"`
	Description        struct{} `xml:"Description"`
}

// Record renders the WTML document for a pyramid served at baseURL with the
// given maximum depth. The Url attribute carries the viewer's tile template
// "{1}/{3}/{3}_{2}.png" (level, column, row), matching the on-disk layout.
func Record(is ImageSet, baseURL string, depth int) (string, error) {
	if err := defaults.Set(&is); err != nil {
		return "", err
	}
	doc := folderXML{
		Name: is.FolderName,
		ImageSet: imageSetXML{
			Generic:            "False",
			DataSetType:        "Sky",
			BandPass:           is.BandPass,
			Name:               is.Name,
			URL:                baseURL + "/{1}/{3}/{3}_{2}.png",
			BaseTileLevel:      0,
			TileLevels:         depth,
			BaseDegreesPerTile: "180",
			FileType:           ".png",
			BottomsUp:          "False",
			Projection:         "Toast",
			CenterX:            "0",
			CenterY:            "0",
			OffsetX:            "0",
			OffsetY:            "0",
			Rotation:           "0",
			Sparse:             "False",
			ElevationModel:     "False",
			Credits:            is.Credits,
			CreditsURL:         is.CreditsURL,
			ThumbnailURL:       is.ThumbnailURL,
		},
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}

// WriteFile renders the record and writes it to pth.
func WriteFile(pth string, is ImageSet, baseURL string, depth int) error {
	record, err := Record(is, baseURL, depth)
	if err != nil {
		return err
	}
	return os.WriteFile(pth, []byte(record), 0o644)
}
