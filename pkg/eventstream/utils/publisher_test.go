package utils_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatproxy/pkg/eventstream/kafka"
	"github.com/papercomputeco/chatproxy/pkg/eventstream/nop"
	"github.com/papercomputeco/chatproxy/pkg/eventstream/utils"
	"github.com/papercomputeco/chatproxy/pkg/logger"
)

var _ = Describe("NewPublisher", func() {
	It("returns the nop publisher when disabled", func() {
		for _, name := range []string{"", "none", " NONE "} {
			p, err := utils.NewPublisher(utils.PublisherConfig{Provider: name}, logger.Nop())
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(BeAssignableToTypeOf(&nop.Publisher{}))
		}
	})

	It("returns a kafka publisher", func() {
		p, err := utils.NewPublisher(utils.PublisherConfig{
			Provider: "kafka",
			Brokers:  "localhost:9092",
		}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(BeAssignableToTypeOf(&kafka.Publisher{}))
		Expect(p.Close()).To(Succeed())
	})

	It("requires brokers for kafka", func() {
		_, err := utils.NewPublisher(utils.PublisherConfig{Provider: "kafka"}, logger.Nop())
		Expect(err).To(MatchError(kafka.ErrNoBrokers))
	})

	It("rejects unknown providers", func() {
		_, err := utils.NewPublisher(utils.PublisherConfig{Provider: "nats"}, logger.Nop())
		Expect(err).To(MatchError(ContainSubstring("unknown events provider")))
	})
})

var _ = Describe("SplitBrokers", func() {
	It("trims and drops blanks", func() {
		Expect(utils.SplitBrokers(" a:9092, ,b:9092,")).To(Equal([]string{"a:9092", "b:9092"}))
		Expect(utils.SplitBrokers("")).To(BeEmpty())
	})
})
