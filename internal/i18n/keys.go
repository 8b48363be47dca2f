package i18n

// Message keys used by the toast flows.
const (
	KeyShareShared      = "system.shareShared"
	KeyShareCopied      = "system.shareCopied"
	KeyShareUnavailable = "system.shareUnavailable"
	KeySystemError      = "system.error"
	KeyServerError      = "system.serverError"

	KeySessionFailed = "session.failed"

	KeyTaskClaimSuccess  = "tasks.claimSuccess"
	KeyTaskClaimNotReady = "tasks.claimNotReady"

	KeySocialReferralMissing = "social.referralMissing"
	KeySocialShareTitle      = "social.shareTitle"
	KeySocialShareText       = "social.shareText"
)

var catalog = map[string]map[string]string{
	"en": {
		KeyShareShared:           "Thanks for sharing!",
		KeyShareCopied:           "Link copied to clipboard",
		KeyShareUnavailable:      "Sharing is not available on this device",
		KeySystemError:           "Something went wrong",
		KeyServerError:           "Server error, please try again later",
		KeySessionFailed:         "Could not start the session: {error}",
		KeyTaskClaimSuccess:      "Task completed! +{reward}",
		KeyTaskClaimNotReady:     "The task is not completed yet",
		KeySocialReferralMissing: "Your referral link is not ready yet",
		KeySocialShareTitle:      "Invite friends",
		KeySocialShareText:       "Join me and get a bonus!",
	},
	"ru": {
		KeyShareShared:           "Спасибо, что поделились!",
		KeyShareCopied:           "Ссылка скопирована",
		KeyShareUnavailable:      "На этом устройстве нельзя поделиться",
		KeySystemError:           "Что-то пошло не так",
		KeyServerError:           "Ошибка сервера, попробуйте позже",
		KeySessionFailed:         "Не удалось начать сессию: {error}",
		KeyTaskClaimSuccess:      "Задание выполнено! +{reward}",
		KeyTaskClaimNotReady:     "Задание ещё не выполнено",
		KeySocialReferralMissing: "Реферальная ссылка ещё не готова",
		KeySocialShareTitle:      "Пригласить друзей",
		KeySocialShareText:       "Присоединяйся и получи бонус!",
	},
}
