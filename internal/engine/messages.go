package engine

// User-facing copy. Everything the bot says that is not a field question
// lives here.
const (
	msgConfirmHelp = "اطلاعات بالا را بررسی کنید.\n" +
		"✅ برای ثبت آگهی «تایید» را بزنید.\n" +
		"✏️ برای تغییر یک مورد «ویرایش» را بزنید.\n" +
		"❌ برای شروع دوباره «انصراف» را بزنید."

	msgEditHelp = "کدام مورد را می‌خواهید تغییر دهید؟\n" +
		"به شکل «نام فیلد: مقدار جدید» بنویسید، مثلاً:\n" +
		"متراژ: 120\n" +
		"قیمت: 4 میلیارد و 200 میلیون تومان\n" +
		"یا فقط نام فیلد را بفرستید تا دوباره بپرسم."

	msgSuccess = "✅ آگهی شما با موفقیت ثبت شد!\n" +
		"همکاران ما به‌زودی برای هماهنگی با شما تماس می‌گیرند."

	msgCancelled = "❌ ثبت آگهی لغو شد. هر وقت خواستید، اطلاعات ملک را دوباره بفرستید."

	msgInsufficientCredit = "⚠️ اعتبار شما برای ثبت آگهی کافی نیست.\n" +
		"برای شارژ اعتبار با پشتیبانی تماس بگیرید."

	msgRetryLater = "⚠️ ثبت آگهی انجام نشد و اعتباری کم نشد.\n" +
		"لطفاً دوباره «تایید» را بزنید."

	msgVoiceFailed = "🎤 پیام صوتی را متوجه نشدم. لطفاً دوباره بفرستید یا متنی بنویسید."

	msgEmptyInput = "پیام خالی بود. اطلاعات ملک خود را بنویسید."

	msgUnexpectedError = "⚠️ مشکلی پیش آمد. لطفاً چند لحظه دیگر دوباره تلاش کنید."
)
