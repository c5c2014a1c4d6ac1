package telegram

const (
	API = "https://api.telegram.org/bot"
)

// https://core.telegram.org/bots/api#available-methods
const (
	MethodGetWebhookInfo = "getWebhookInfo"
	MethodSetWebhook     = "setWebhook"
	MethodDeleteWebhook  = "deleteWebhook"
	MethodGetMe          = "getMe"
	MethodSendMessage    = "sendMessage"
	MethodSendPhoto      = "sendPhoto"
	MethodSendAudio      = "sendAudio"
	MethodSendDocument   = "sendDocument"
	MethodSendSticker    = "sendSticker"
	MethodSendVideo      = "sendVideo"
	MethodSendVoice      = "sendVoice"
	MethodSendVideoNote  = "sendVideoNote"
	MethodSendLocation   = "sendLocation"
	MethodSendVenue      = "sendVenue"
	MethodSendContact    = "sendContact"
	MethodSendChatAction = "sendChatAction"
)

// https://core.telegram.org/bots/api#sendchataction
const (
	ActionTyping          = "typing"
	ActionUploadPhoto     = "upload_photo"
	ActionRecordVideo     = "record_video"
	ActionUploadVideo     = "upload_video"
	ActionRecordVoice     = "record_voice"
	ActionUploadVoice     = "upload_voice"
	ActionUploadDocument  = "upload_document"
	ActionChooseSticker   = "choose_sticker"
	ActionFindLocation    = "find_location"
	ActionRecordVideoNote = "record_video_note"
	ActionUploadVideoNote = "upload_video_note"
)
