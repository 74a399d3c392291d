package catalog

// DefaultTokens returns the built-in trait list.
func DefaultTokens() []Token {
	return []Token{
		// one-coin merits
		{ID: "101", Label: "主动", Emoji: "🔥", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityPositive},
		{ID: "102", Label: "中等偏上颜值", Emoji: "✨", Tags: []Tag{TagLooks}, Weight: 1, Polarity: PolarityPositive},
		{ID: "103", Label: "诚实善良", Emoji: "😇", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityPositive},
		{ID: "104", Label: "孝顺正直", Emoji: "🎋", Tags: []Tag{TagFamily, TagPersonality}, Weight: 1, Polarity: PolarityPositive},
		{ID: "105", Label: "尊重对方", Emoji: "🤝", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityPositive},
		{ID: "106", Label: "负责专一", Emoji: "🔒", Tags: []Tag{TagPersonality, TagRedFlag}, Weight: 1, Polarity: PolarityPositive},
		{ID: "107", Label: "e人", Emoji: "🎉", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityPositive},
		{ID: "108", Label: "会做饭", Emoji: "🍳", Tags: []Tag{TagDomestic}, Weight: 1, Polarity: PolarityPositive},
		{ID: "109", Label: "包容脾气", Emoji: "🤗", Tags: []Tag{TagEmotion}, Weight: 1, Polarity: PolarityPositive},
		{ID: "110", Label: "上进", Emoji: "📈", Tags: []Tag{TagResource}, Weight: 1, Polarity: PolarityPositive},
		{ID: "111", Label: "情绪稳定", Emoji: "😌", Tags: []Tag{TagEmotion}, Weight: 1, Polarity: PolarityPositive},
		{ID: "112", Label: "幽默", Emoji: "🤡", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityPositive},
		{ID: "113", Label: "家庭和睦", Emoji: "🏠", Tags: []Tag{TagFamily}, Weight: 1, Polarity: PolarityPositive},
		{ID: "114", Label: "父母通情达理", Emoji: "👴", Tags: []Tag{TagFamily}, Weight: 1, Polarity: PolarityPositive},
		{ID: "115", Label: "喜欢运动", Emoji: "🏃", Tags: []Tag{TagLifestyle}, Weight: 1, Polarity: PolarityPositive},
		{ID: "116", Label: "共情能力强", Emoji: "❤️", Tags: []Tag{TagEmotion}, Weight: 1, Polarity: PolarityPositive},
		{ID: "117", Label: "提供情绪价值", Emoji: "🍬", Tags: []Tag{TagEmotion}, Weight: 1, Polarity: PolarityPositive},
		{ID: "118", Label: "有边界感", Emoji: "🚧", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityPositive},
		{ID: "119", Label: "自律", Emoji: "⏰", Tags: []Tag{TagLifestyle}, Weight: 1, Polarity: PolarityPositive},
		{ID: "120", Label: "解决问题强", Emoji: "🛠️", Tags: []Tag{TagResource}, Weight: 1, Polarity: PolarityPositive},
		{ID: "121", Label: "抗压能力强", Emoji: "🏋️", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityPositive},
		{ID: "122", Label: "好学", Emoji: "📚", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityPositive},
		{ID: "123", Label: "理性消费", Emoji: "💳", Tags: []Tag{TagResource}, Weight: 1, Polarity: PolarityPositive},
		{ID: "124", Label: "有储蓄意识", Emoji: "💰", Tags: []Tag{TagResource}, Weight: 1, Polarity: PolarityPositive},
		{ID: "125", Label: "形象管理", Emoji: "👔", Tags: []Tag{TagLooks}, Weight: 1, Polarity: PolarityPositive},
		{ID: "126", Label: "生育契合", Emoji: "👶", Tags: []Tag{TagFamily}, Weight: 1, Polarity: PolarityPositive},
		{ID: "127", Label: "原生和睦", Emoji: "👨‍👩‍👦", Tags: []Tag{TagFamily}, Weight: 1, Polarity: PolarityPositive},
		{ID: "128", Label: "共同规划", Emoji: "🗺️", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityPositive},
		{ID: "129", Label: "工作稳定", Emoji: "💼", Tags: []Tag{TagResource}, Weight: 1, Polarity: PolarityPositive},
		{ID: "130", Label: "健康达标", Emoji: "💪", Tags: []Tag{TagLooks}, Weight: 1, Polarity: PolarityPositive},
		{ID: "131", Label: "无负债", Emoji: "🆓", Tags: []Tag{TagResource}, Weight: 1, Polarity: PolarityPositive},
		{ID: "132", Label: "不攀比物质", Emoji: "💎", Tags: []Tag{TagResource, TagPersonality}, Weight: 1, Polarity: PolarityPositive},
		{ID: "133", Label: "金钱大方", Emoji: "💸", Tags: []Tag{TagResource}, Weight: 1, Polarity: PolarityPositive},
		{ID: "134", Label: "经济共担", Emoji: "⚖️", Tags: []Tag{TagResource}, Weight: 1, Polarity: PolarityPositive},
		{ID: "135", Label: "社交干净", Emoji: "🧹", Tags: []Tag{TagLifestyle}, Weight: 1, Polarity: PolarityPositive},
		{ID: "136", Label: "恋爱经历少", Emoji: "🌱", Tags: []Tag{TagLifestyle}, Weight: 1, Polarity: PolarityPositive},
		{ID: "137", Label: "心思简单", Emoji: "🥛", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityPositive},
		{ID: "138", Label: "乐观爱笑", Emoji: "😄", Tags: []Tag{TagEmotion}, Weight: 1, Polarity: PolarityPositive},
		{ID: "139", Label: "不控制", Emoji: "🪁", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityPositive},
		{ID: "140", Label: "适度陪伴", Emoji: "👫", Tags: []Tag{TagLifestyle}, Weight: 1, Polarity: PolarityPositive},
		{ID: "141", Label: "粘人", Emoji: "🐨", Tags: []Tag{TagEmotion}, Weight: 1, Polarity: PolarityPositive},
		{ID: "142", Label: "平等观念", Emoji: "⚖️", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityPositive},
		{ID: "143", Label: "不迷信", Emoji: "🚫", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityPositive},
		{ID: "144", Label: "社会责任感", Emoji: "🌍", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityPositive},
		{ID: "145", Label: "关心伴侣", Emoji: "💓", Tags: []Tag{TagEmotion}, Weight: 1, Polarity: PolarityPositive},
		{ID: "146", Label: "会认错", Emoji: "🙇", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityPositive},
		{ID: "147", Label: "浪漫", Emoji: "🌹", Tags: []Tag{TagLifestyle}, Weight: 1, Polarity: PolarityPositive},
		{ID: "148", Label: "动手能力强", Emoji: "🔧", Tags: []Tag{TagDomestic}, Weight: 1, Polarity: PolarityPositive},
		{ID: "149", Label: "爱干净", Emoji: "🧼", Tags: []Tag{TagLifestyle}, Weight: 1, Polarity: PolarityPositive},
		{ID: "150", Label: "成熟稳重", Emoji: "🗿", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityPositive},
		{ID: "151", Label: "聪明逻辑强", Emoji: "🧠", Tags: []Tag{TagResource}, Weight: 1, Polarity: PolarityPositive},
		{ID: "152", Label: "聊得来", Emoji: "💬", Tags: []Tag{TagEmotion}, Weight: 1, Polarity: PolarityPositive},
		{ID: "153", Label: "节俭", Emoji: "🐷", Tags: []Tag{TagResource}, Weight: 1, Polarity: PolarityPositive},
		{ID: "154", Label: "双方没隐私", Emoji: "📖", Tags: []Tag{TagLifestyle}, Weight: 1, Polarity: PolarityPositive},
		{ID: "155", Label: "爱思考问题", Emoji: "🤔", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityPositive},
		{ID: "156", Label: "高情商", Emoji: "🎭", Tags: []Tag{TagEmotion}, Weight: 1, Polarity: PolarityPositive},
		{ID: "157", Label: "编制内", Emoji: "🏛️", Tags: []Tag{TagResource}, Weight: 1, Polarity: PolarityPositive},
		{ID: "158", Label: "同家乡", Emoji: "🏡", Tags: []Tag{TagFamily}, Weight: 1, Polarity: PolarityPositive},
		{ID: "159", Label: "思想独立", Emoji: "🦅", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityPositive},
		{ID: "160", Label: "消费观一致", Emoji: "💳", Tags: []Tag{TagResource}, Weight: 1, Polarity: PolarityPositive},
		{ID: "161", Label: "一线城市户口", Emoji: "🌆", Tags: []Tag{TagResource}, Weight: 1, Polarity: PolarityPositive},
		{ID: "162", Label: "年龄小", Emoji: "🍼", Tags: []Tag{TagLooks}, Weight: 1, Polarity: PolarityPositive},
		{ID: "163", Label: "有车", Emoji: "🚗", Tags: []Tag{TagResource}, Weight: 1, Polarity: PolarityPositive},

		// two-coin merits
		{ID: "201", Label: "180+/168+", Emoji: "🦒", Tags: []Tag{TagLooks}, Weight: 2, Polarity: PolarityPositive},
		{ID: "202", Label: "年入50万+/35万+", Emoji: "💰", Tags: []Tag{TagResource}, Weight: 2, Polarity: PolarityPositive},
		{ID: "203", Label: "净资产100万+", Emoji: "🏦", Tags: []Tag{TagResource}, Weight: 2, Polarity: PolarityPositive},
		{ID: "204", Label: "班草/班花级颜值", Emoji: "🌟", Tags: []Tag{TagLooks}, Weight: 2, Polarity: PolarityPositive},
		{ID: "205", Label: "常春藤/985", Emoji: "🎓", Tags: []Tag{TagResource}, Weight: 2, Polarity: PolarityPositive},
		{ID: "206", Label: "工资上交", Emoji: "💳", Tags: []Tag{TagResource}, Weight: 2, Polarity: PolarityPositive},
		{ID: "207", Label: "永远主动认错", Emoji: "🙇‍♂️", Tags: []Tag{TagEmotion}, Weight: 2, Polarity: PolarityPositive},
		{ID: "208", Label: "一线城市全款房", Emoji: "🏠", Tags: []Tag{TagResource}, Weight: 2, Polarity: PolarityPositive},
		{ID: "209", Label: "某些领域有成就", Emoji: "🏆", Tags: []Tag{TagResource}, Weight: 2, Polarity: PolarityPositive},
		{ID: "210", Label: "单纯简单", Emoji: "⚪", Tags: []Tag{TagPersonality}, Weight: 2, Polarity: PolarityPositive},

		// one-coin flaws
		{ID: "301", Label: "玻璃心", Emoji: "💔", Tags: []Tag{TagEmotion}, Weight: 1, Polarity: PolarityNegative},
		{ID: "302", Label: "i人", Emoji: "🤫", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityNegative},
		{ID: "303", Label: "迷信", Emoji: "🔮", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityNegative},
		{ID: "304", Label: "感情复杂", Emoji: "🕸️", Tags: []Tag{TagLifestyle}, Weight: 1, Polarity: PolarityNegative},
		{ID: "305", Label: "逃避问题", Emoji: "🏃‍♂️", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityNegative},
		{ID: "306", Label: "懒散", Emoji: "🦥", Tags: []Tag{TagLifestyle}, Weight: 1, Polarity: PolarityNegative},
		{ID: "307", Label: "<170/<158", Emoji: "📏", Tags: []Tag{TagLooks}, Weight: 1, Polarity: PolarityNegative},
		{ID: "308", Label: "奢靡", Emoji: "🥂", Tags: []Tag{TagResource, TagLifestyle}, Weight: 1, Polarity: PolarityNegative},
		{ID: "309", Label: "中等偏下颜值", Emoji: "😐", Tags: []Tag{TagLooks}, Weight: 1, Polarity: PolarityNegative},
		{ID: "310", Label: "收入不稳定", Emoji: "📉", Tags: []Tag{TagResource}, Weight: 1, Polarity: PolarityNegative},
		{ID: "311", Label: "抠门", Emoji: "🤏", Tags: []Tag{TagResource}, Weight: 1, Polarity: PolarityNegative},
		{ID: "312", Label: "高冷傲娇", Emoji: "😒", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityNegative},
		{ID: "313", Label: "自我为中心", Emoji: "🤴", Tags: []Tag{TagPersonality}, Weight: 1, Polarity: PolarityNegative},
		{ID: "314", Label: "不爱卫生", Emoji: "🗑️", Tags: []Tag{TagLifestyle}, Weight: 1, Polarity: PolarityNegative},
		{ID: "315", Label: "没话聊", Emoji: "🤐", Tags: []Tag{TagEmotion}, Weight: 1, Polarity: PolarityNegative},
		{ID: "316", Label: "离异", Emoji: "💔", Tags: []Tag{TagFamily}, Weight: 1, Polarity: PolarityNegative},
		{ID: "317", Label: "无仪式感", Emoji: "📅", Tags: []Tag{TagLifestyle}, Weight: 1, Polarity: PolarityNegative},
		{ID: "318", Label: "工作不稳定", Emoji: "⚠️", Tags: []Tag{TagResource}, Weight: 1, Polarity: PolarityNegative},
		{ID: "319", Label: "高彩礼", Emoji: "💰", Tags: []Tag{TagResource}, Weight: 1, Polarity: PolarityNegative},
		{ID: "320", Label: "抽烟喝酒", Emoji: "🚬", Tags: []Tag{TagLifestyle}, Weight: 1, Polarity: PolarityNegative},
		{ID: "321", Label: "蹦迪纹身", Emoji: "🕺", Tags: []Tag{TagLifestyle}, Weight: 1, Polarity: PolarityNegative},
		{ID: "322", Label: "异地恋", Emoji: "🚆", Tags: []Tag{TagLifestyle}, Weight: 1, Polarity: PolarityNegative},
		{ID: "323", Label: "年龄大太多", Emoji: "👴", Tags: []Tag{TagLifestyle}, Weight: 1, Polarity: PolarityNegative},
		{ID: "324", Label: "绿茶/海王", Emoji: "🍵", Tags: []Tag{TagRedFlag}, Weight: 1, Polarity: PolarityNegative},
		{ID: "325", Label: "年入<10万/7万", Emoji: "📉", Tags: []Tag{TagResource}, Weight: 1, Polarity: PolarityNegative},
		{ID: "326", Label: "大专/民本", Emoji: "🎓", Tags: []Tag{TagResource}, Weight: 1, Polarity: PolarityNegative},
		{ID: "327", Label: "净资产<15万/<9万", Emoji: "💸", Tags: []Tag{TagResource}, Weight: 1, Polarity: PolarityNegative},

		// two-coin flaws
		{ID: "401", Label: "消费无节制", Emoji: "🛍️", Tags: []Tag{TagResource, TagRedFlag}, Weight: 2, Polarity: PolarityNegative},
		{ID: "402", Label: "负资产", Emoji: "📉", Tags: []Tag{TagResource, TagRedFlag}, Weight: 2, Polarity: PolarityNegative},
		{ID: "403", Label: "<166/<154", Emoji: "🤏", Tags: []Tag{TagLooks}, Weight: 2, Polarity: PolarityNegative},
		{ID: "404", Label: "年入<6万/4.2万", Emoji: "🚲", Tags: []Tag{TagResource}, Weight: 2, Polarity: PolarityNegative},
		{ID: "405", Label: "高中及以下学历", Emoji: "📝", Tags: []Tag{TagResource}, Weight: 2, Polarity: PolarityNegative},
		{ID: "406", Label: "难看", Emoji: "🤢", Tags: []Tag{TagLooks}, Weight: 2, Polarity: PolarityNegative},
		{ID: "407", Label: "冷暴力", Emoji: "❄️", Tags: []Tag{TagRedFlag, TagEmotion}, Weight: 2, Polarity: PolarityNegative},
		{ID: "408", Label: "出轨", Emoji: "🦊", Tags: []Tag{TagRedFlag}, Weight: 2, Polarity: PolarityNegative},
		{ID: "409", Label: "性生活混乱", Emoji: "🔞", Tags: []Tag{TagRedFlag}, Weight: 2, Polarity: PolarityNegative},
		{ID: "410", Label: "家暴", Emoji: "🥊", Tags: []Tag{TagRedFlag}, Weight: 2, Polarity: PolarityNegative},
		{ID: "411", Label: "赌博", Emoji: "🎲", Tags: []Tag{TagRedFlag}, Weight: 2, Polarity: PolarityNegative},
		{ID: "412", Label: "抠搜", Emoji: "🦠", Tags: []Tag{TagResource, TagPersonality}, Weight: 2, Polarity: PolarityNegative},
	}
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return MustNew(DefaultTokens())
}
