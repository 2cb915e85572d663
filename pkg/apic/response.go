package apic

import "strconv"

// ErrorDetail extracts the code and text of an APIC error document
// ({"imdata": [{"error": {"attributes": {"code": ..., "text": ...}}}]}).
// The last result is false when the response carries no error object.
func ErrorDetail(resp Response) (code, text string, ok bool) {
	for _, o := range resp.Imdata {
		if o.Class() == ClassError {
			return o.GetAttrStr(AttrCode), o.GetAttrStr(AttrText), true
		}
	}
	return "", "", false
}

// NewError builds an APIC error document.
func NewError(code, text string) Response {
	return Response{
		TotalCount: "1",
		Imdata: []Object{
			NewObject(ClassError, map[string]interface{}{AttrCode: code, AttrText: text}),
		},
	}
}

// NewResponse wraps objects in a query response.
func NewResponse(objs ...Object) Response {
	if objs == nil {
		objs = []Object{}
	}
	return Response{
		TotalCount: strconv.Itoa(len(objs)),
		Imdata:     objs,
	}
}
