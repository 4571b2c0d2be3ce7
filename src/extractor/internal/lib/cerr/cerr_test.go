package cerr_test

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/domains"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/cerr"
)

var someMark = domains.New("some_mark")

var _ = Describe("Error builder", func() {
	var root error

	BeforeEach(func() {
		root = errors.New("disk on fire")
	})

	It("keeps the message and the cause", func() {
		err := cerr.Wrap(root).Error("Failed to write")

		Expect(err.Error()).To(Equal("Failed to write: disk on fire"))
		Expect(errors.Is(err, root)).To(BeTrue())
	})

	It("creates plain errors without a cause", func() {
		err := cerr.Error("Nothing wrapped")
		Expect(err.Error()).To(Equal("Nothing wrapped"))
	})

	It("attaches marks that survive further wrapping", func() {
		err := cerr.Mark(someMark).Wrap(root).Error("Failed to write")
		outer := cerr.Field("path", "/tmp/x").Wrap(err).Error("Job failed")

		Expect(errors.Is(outer, someMark)).To(BeTrue())
		Expect(errors.Is(cerr.Wrap(root).Error("unmarked"), someMark)).To(BeFalse())
	})

	It("does not share fields between builders", func() {
		base := cerr.Field("a", 1)
		first := base.Field("b", 2).Error("first")
		second := base.Field("c", 3).Error("second")

		Expect(cerr.FieldsOf(first)).To(Equal(cerr.F{"a": 1, "b": 2}))
		Expect(cerr.FieldsOf(second)).To(Equal(cerr.F{"a": 1, "c": 3}))
	})

	Describe("FieldsOf", func() {
		It("collects fields from every level of the chain", func() {
			inner := cerr.Fields(cerr.F{"index": 3, "kind": "sample"}).Error("inner")
			outer := cerr.Field("path", "out.wav").Wrap(inner).Error("outer")

			Expect(cerr.FieldsOf(outer)).To(Equal(cerr.F{
				"index": 3,
				"kind":  "sample",
				"path":  "out.wav",
			}))
		})

		It("prefers the field closest to the root cause", func() {
			inner := cerr.Field("index", 1).Error("inner")
			outer := cerr.Field("index", 2).Wrap(inner).Error("outer")

			Expect(cerr.FieldsOf(outer)).To(HaveKeyWithValue("index", 1))
		})

		It("finds fields through foreign wrappers", func() {
			inner := cerr.Field("index", 7).Error("inner")
			wrapped := fmt.Errorf("context: %w", inner)

			Expect(cerr.FieldsOf(wrapped)).To(HaveKeyWithValue("index", 7))
		})

		It("returns nothing for plain errors", func() {
			Expect(cerr.FieldsOf(root)).To(BeEmpty())
		})
	})
})
