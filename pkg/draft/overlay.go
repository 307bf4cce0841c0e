package draft

import (
	"context"
	"errors"
	"fmt"

	"github.com/beevik/etree"

	"github.com/dmitrymomot/lingua/pkg/model"
	"github.com/dmitrymomot/lingua/pkg/xmltree"
)

// PublishedField names the boolean field checked by FilterUnpublished.
const PublishedField = "published"

// InsertDraft replaces every object element of doc whose pk and model match
// an instance of the revision with the serialization of that instance.
// Objects of the revision that do not occur in doc are ignored.
func InsertDraft(ctx context.Context, doc []byte, revisionID string, src Source, ser *xmltree.Serializer) ([]byte, error) {
	snapshot, err := src.Snapshot(ctx, revisionID)
	if err != nil {
		return nil, err
	}

	tree, err := parse(doc)
	if err != nil {
		return nil, err
	}

	for _, inst := range snapshot {
		replacement, err := objectElement(ctx, ser, inst)
		if err != nil {
			return nil, err
		}
		pk := model.FormatValue(model.CharField, inst.PK)
		label := inst.Type.Label()

		for _, node := range tree.FindElements("//object") {
			if node.SelectAttrValue("pk", "") != pk || node.SelectAttrValue("model", "") != label {
				continue
			}
			parent := node.Parent()
			if parent == nil {
				continue
			}
			idx := node.Index()
			parent.RemoveChildAt(idx)
			parent.InsertChildAt(idx, replacement.Copy())
		}
	}

	return tree.WriteToBytes()
}

// FilterUnpublished removes every object element with a published field
// whose text is False, together with everything nested inside it.
func FilterUnpublished(doc []byte) ([]byte, error) {
	tree, err := parse(doc)
	if err != nil {
		return nil, err
	}

	for _, node := range tree.FindElements("//object") {
		if !unpublished(node) {
			continue
		}
		if parent := node.Parent(); parent != nil {
			parent.RemoveChild(node)
		}
	}

	return tree.WriteToBytes()
}

func unpublished(node *etree.Element) bool {
	for _, f := range node.SelectElements("field") {
		if f.SelectAttrValue("name", "") == PublishedField && f.Text() == "False" {
			return true
		}
	}
	return false
}

func objectElement(ctx context.Context, ser *xmltree.Serializer, inst *model.Instance) (*etree.Element, error) {
	if inst == nil || inst.Type == nil {
		return nil, xmltree.ErrNilInstance
	}
	data, err := ser.Serialize(ctx, []*model.Instance{inst})
	if err != nil {
		return nil, fmt.Errorf("draft: serialize %s: %w", inst, err)
	}
	tree, err := parse(data)
	if err != nil {
		return nil, err
	}
	obj := tree.Root().SelectElement("object")
	if obj == nil {
		return nil, fmt.Errorf("%w: no object for %s", ErrMalformedDocument, inst)
	}
	return obj, nil
}

func parse(doc []byte) (*etree.Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(doc); err != nil {
		return nil, errors.Join(ErrMalformedDocument, err)
	}
	if tree.Root() == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedDocument)
	}
	return tree, nil
}
