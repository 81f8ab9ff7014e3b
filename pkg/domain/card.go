package domain

// CardType はカードの用途を表す固定の列挙型です。
type CardType string

const (
	CardTypeBirthday        CardType = "birthday"
	CardTypeMothersDay      CardType = "mothersday"
	CardTypeFathersDay      CardType = "fathersday"
	CardTypeValentines      CardType = "valentines"
	CardTypeThankYou        CardType = "thankyou"
	CardTypeCongratulations CardType = "congratulations"
	CardTypeWedding         CardType = "wedding"
	CardTypeAnniversary     CardType = "anniversary"
	CardTypeGraduation      CardType = "graduation"
	CardTypeGetWell         CardType = "getwell"
	CardTypeSympathy        CardType = "sympathy"
	CardTypeGeneral         CardType = "general"
)

var validCardTypes = map[CardType]struct{}{
	CardTypeBirthday: {}, CardTypeMothersDay: {}, CardTypeFathersDay: {},
	CardTypeValentines: {}, CardTypeThankYou: {}, CardTypeCongratulations: {},
	CardTypeWedding: {}, CardTypeAnniversary: {}, CardTypeGraduation: {},
	CardTypeGetWell: {}, CardTypeSympathy: {}, CardTypeGeneral: {},
}

// Valid は既知の CardType かどうかを判定します。
func (c CardType) Valid() bool {
	_, ok := validCardTypes[c]
	return ok
}

// Mood はカード全体の感情トーンを表します。
type Mood string

const (
	MoodWarm         Mood = "warm"
	MoodElegant      Mood = "elegant"
	MoodPlayful      Mood = "playful"
	MoodProfessional Mood = "professional"
	MoodRomantic     Mood = "romantic"
	MoodCheerful     Mood = "cheerful"
)

var validMoods = map[Mood]struct{}{
	MoodWarm: {}, MoodElegant: {}, MoodPlayful: {},
	MoodProfessional: {}, MoodRomantic: {}, MoodCheerful: {},
}

// Valid は既知の Mood かどうかを判定します。
func (m Mood) Valid() bool {
	_, ok := validMoods[m]
	return ok
}

// LayoutKind はスライドのレイアウト種別です。
// 未知の値も構造としては有効で、描画時にテキストを生成しないだけなのだ。
type LayoutKind string

const (
	LayoutCover       LayoutKind = "cover"
	LayoutMessage     LayoutKind = "message"
	LayoutWishes      LayoutKind = "wishes"
	LayoutCelebration LayoutKind = "celebration"
	LayoutClosing     LayoutKind = "closing"
)

// Colors はカードの配色です。accent は省略可能で、省略時は text を使います。
type Colors struct {
	Background string `json:"background"`
	Text       string `json:"text"`
	Accent     string `json:"accent,omitempty"`
}

// AccentOrText は accent 色を返し、未設定なら text 色にフォールバックします。
func (c Colors) AccentOrText() string {
	if c.Accent != "" {
		return c.Accent
	}
	return c.Text
}

// EmojiPlacement は 10×5.625 の仮想キャンバス上に配置される絵文字1つ分の情報です。
// Size はポイント単位のフォントサイズで、0 の場合は描画側が既定値を補います。
type EmojiPlacement struct {
	Emoji string  `json:"emoji"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
}

// Slide はカードを構成する1枚のスライドです。
// SlideNumber は参考情報であり、描画順は配列順で決まります。
type Slide struct {
	SlideNumber    int              `json:"slideNumber"`
	Layout         LayoutKind       `json:"layout"`
	MainText       string           `json:"mainText"`
	SubText        string           `json:"subText,omitempty"`
	BodyText       string           `json:"bodyText,omitempty"`
	Wishes         []string         `json:"wishes,omitempty"`
	Emojis         []string         `json:"emojis,omitempty"`
	EmojiPositions []EmojiPlacement `json:"emojiPositions,omitempty"`
}

// CardSpec は AI モデルから返されるカード仕様全体の構造です。
// 生成後は編集用メソッド経由でのみ変更し、既存の値を直接書き換えないこと。
type CardSpec struct {
	CardType      CardType `json:"cardType"`
	Occasion      string   `json:"occasion"`
	RecipientInfo string   `json:"recipientInfo"`
	Theme         string   `json:"theme"`
	Mood          Mood     `json:"mood"`
	Colors        Colors   `json:"colors"`
	Emojis        []string `json:"emojis,omitempty"`
	MainMessage   string   `json:"mainMessage"`
	SubMessage    string   `json:"subMessage"`
	Slides        []Slide  `json:"slides"`
}

// Validate は描画・出力の前提となる最低限の構造を検査します。
// 背景色・文字色・スライド配列が欠けていれば MalformedSpecError を返します。
func (s *CardSpec) Validate() error {
	if s.Colors.Background == "" {
		return &MalformedSpecError{Reason: "colors.background がありません"}
	}
	if s.Colors.Text == "" {
		return &MalformedSpecError{Reason: "colors.text がありません"}
	}
	if len(s.Slides) == 0 {
		return &MalformedSpecError{Reason: "slides が空です"}
	}
	return nil
}

// ValidateStrict は AI 応答の直後に呼ぶ厳格な検査です。
// Validate に加えて cardType / mood の列挙値を検査します。
// スライドの layout は未知でも描画契約上有効なので、あえて検査しません。
func (s *CardSpec) ValidateStrict() error {
	if err := s.Validate(); err != nil {
		return err
	}
	if !s.CardType.Valid() {
		return &MalformedSpecError{Reason: "cardType が不正です: " + string(s.CardType)}
	}
	if !s.Mood.Valid() {
		return &MalformedSpecError{Reason: "mood が不正です: " + string(s.Mood)}
	}
	return nil
}

// WithMainMessage はメインメッセージのみ差し替えた新しい CardSpec を返します。
func (s CardSpec) WithMainMessage(msg string) CardSpec {
	s.MainMessage = msg
	return s
}

// WithSubMessage はサブメッセージのみ差し替えた新しい CardSpec を返します。
func (s CardSpec) WithSubMessage(msg string) CardSpec {
	s.SubMessage = msg
	return s
}

// WithBackground は背景色のみ差し替えた新しい CardSpec を返します。
func (s CardSpec) WithBackground(hex string) CardSpec {
	s.Colors.Background = hex
	return s
}

// WithTextColor は文字色のみ差し替えた新しい CardSpec を返します。
func (s CardSpec) WithTextColor(hex string) CardSpec {
	s.Colors.Text = hex
	return s
}
