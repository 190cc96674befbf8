package content

import (
	"math/rand/v2"
	"slices"
)

// DefaultTopics is the built-in catalog.
var DefaultTopics = []Topic{
	{Title: "AI技术在现代Web开发中的应用", Keywords: []string{"AI", "Web开发", "机器学习", "前端技术"}, Category: "技术"},
	{Title: "数字化转型对企业的影响", Keywords: []string{"数字化转型", "企业管理", "技术创新"}, Category: "商业"},
	{Title: "云计算技术发展趋势", Keywords: []string{"云计算", "容器化", "微服务"}, Category: "技术"},
	{Title: "网络安全最佳实践", Keywords: []string{"网络安全", "数据保护", "隐私"}, Category: "安全"},
	{Title: "移动应用开发新趋势", Keywords: []string{"移动开发", "跨平台", "用户体验"}, Category: "技术"},
	{Title: "大数据分析与商业智能", Keywords: []string{"大数据", "数据分析", "商业智能"}, Category: "数据"},
	{Title: "区块链技术的实际应用", Keywords: []string{"区块链", "智能合约", "去中心化"}, Category: "技术"},
	{Title: "用户体验设计原则", Keywords: []string{"UX设计", "交互设计", "可用性"}, Category: "设计"},
}

// Catalog is a fixed list of candidate topics. It is not modified after construction.
type Catalog struct {
	topics []Topic
	intN   func(n int) int
}

// NewCatalog builds a catalog from the built-in topics followed by extra.
// Invalid extra topics are dropped.
func NewCatalog(extra ...Topic) *Catalog {
	topics := slices.Clone(DefaultTopics)
	for _, t := range extra {
		if t.Valid() {
			topics = append(topics, t)
		}
	}
	return &Catalog{topics: topics, intN: rand.IntN}
}

// Pick returns custom unchanged when it is valid, otherwise a uniformly random catalog topic.
// Recently used topics are not excluded.
func (c *Catalog) Pick(custom *Topic) Topic {
	if custom != nil && custom.Valid() {
		return *custom
	}
	return c.topics[c.intN(len(c.topics))]
}

func (c *Catalog) Topics() []Topic {
	return slices.Clone(c.topics)
}

func (c *Catalog) Size() int {
	return len(c.topics)
}
