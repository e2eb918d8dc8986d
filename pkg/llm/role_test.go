package llm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatproxy/pkg/llm"
)

var _ = Describe("GeminiRole", func() {
	DescribeTable("maps inbound roles",
		func(raw string, expected llm.Role) {
			Expect(llm.GeminiRole(raw)).To(Equal(expected))
		},
		Entry("user stays user", "user", llm.RoleUser),
		Entry("assistant becomes model", "assistant", llm.RoleModel),
		Entry("model stays model", "model", llm.RoleModel),
		Entry("system becomes model", "system", llm.RoleModel),
		Entry("typos become model", "usr", llm.RoleModel),
		Entry("case differences become model", "User", llm.RoleModel),
		Entry("empty becomes model", "", llm.RoleModel),
	)
})
