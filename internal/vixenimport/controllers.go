package vixenimport

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"vibelights/internal/model"
)

type controllerOutput struct {
	ip       string
	universe uint16
}

// parseControllers streams the Controllers/OutputControllers section of
// SystemConfig.xml in a second pass, emitting one E1.31 controller per
// discovered (ip, universe) output; a controller with no outputs still
// yields a single controller with no unicast address.
func (imp *Importer) parseControllers(r io.Reader) error {
	dec := xml.NewDecoder(r)

	inControllers := false
	var currentName string
	var currentOutputs []controllerOutput

	isControllerElem := func(name string) bool {
		return name == "Controller" || name == "OutputController" || strings.Contains(name, "Controller")
	}

	flush := func() {
		if currentName == "" {
			return
		}
		if len(currentOutputs) == 0 {
			imp.controllers = append(imp.controllers, model.Controller{
				Id:       model.ControllerId(imp.nextControllerID),
				Name:     currentName,
				Protocol: model.ControllerProtocolE131,
			})
			imp.nextControllerID++
		} else {
			for _, out := range currentOutputs {
				imp.controllers = append(imp.controllers, model.Controller{
					Id:       model.ControllerId(imp.nextControllerID),
					Name:     currentName + " (" + out.ip + ")",
					Protocol: model.ControllerProtocolE131,
					Outputs:  []model.ControllerOutput{{IP: out.ip, Universe: out.universe}},
				})
				imp.nextControllerID++
			}
		}
		currentName = ""
		currentOutputs = nil
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return xmlError(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if name == "Controllers" || name == "OutputControllers" {
				inControllers = true
				continue
			}
			if !inControllers {
				continue
			}
			if isControllerElem(name) {
				if n := attrValue(t.Attr, "name", "Name"); n != "" {
					currentName = n
				}
			}
			ip := attrValue(t.Attr, "ip", "IP", "address", "Address", "UnicastAddress")
			universeStr := attrValue(t.Attr, "universe", "Universe")
			if ip != "" && universeStr != "" {
				if uni, err := strconv.ParseUint(universeStr, 10, 16); err == nil {
					currentOutputs = append(currentOutputs, controllerOutput{ip: ip, universe: uint16(uni)})
				}
			}
		case xml.EndElement:
			name := t.Name.Local
			if name == "Controllers" || name == "OutputControllers" {
				inControllers = false
				continue
			}
			if inControllers && isControllerElem(name) {
				flush()
			}
		}
	}
	return nil
}
