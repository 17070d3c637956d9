package bot

// User-visible copy. The bot serves a Russian-speaking lab audience.
const (
	msgGreeting = "Привет\\! Это бот для удобной работы с большими языковыми моделями для сотрудников SberAI Lab \nИспользуй команду /help чтобы узнать больше о возможностях бота \nДефолтная модель для запросов: *GigaChat Lite*"

	msgRestarted = "Бот был перезапущен. Применены стандартные настройки"

	msgHelp = `
Для того, чтобы сделать запрос к выбранной модели просто наберите сообщение в чат

Список доступных команд для использования
/start - запуск бота и приветственное сообщение
/presets - выбор модели для инференса
/help - помощь по боту (эта команда)
/enable_context - включить сохранение контекста для модели
/disable_context - выключить сохранение контекста для модели
/set_context - установить изначальный промпт для модели
/clear_context - очистить текущий контекст
/show_current_context - показать текущий контекст
/info - описание всех доступный на данный момент моделей
/model_info - подробное описание выбранной в данный момент модели`

	msgInfo = `
В данный момент доступны следующие модели для использования:
GigaChat Lite - размер контекста 8192
GigaChat Lite+ - размер контекста 32768
GigaChat Pro - размер контекста 8192`

	msgChooseModel        = "Выберите модель:"
	msgModelInfoHeader    = "Параметры текущей модели:\n"
	msgContextCleared     = "Контекст очищен"
	msgContextDisabledNow = "Сохранение контекста отключено"
	msgContextEnabledNow  = "Сохранение контекста включено"
	msgAlreadyDisabled    = "Сохранение контекста уже отключено"
	msgAlreadyEnabled     = "Сохранение контекста уже включено"
	msgContextIsOff       = "В данный момент сохранение контекста отключено"
	msgContextEmpty       = "Текущий контекст пуст"
	msgEnterContext       = "Введите сообщение, которое хотите использовать как системный контекст. Используйте /cancel для отмены действия"
	msgCancelled          = "Действие отменено"
	msgSendingTo          = "Отправляю запрос в "
	msgModelSelected      = "Выбрана модель: "
	msgContextSetEnabled  = "Контекст очищен. Установлено сообщение: "
	msgContextSetDisabled = "Сохранение контекста включено. Установлено сообщение: "
	msgGenerationFailed   = "Не удалось получить ответ от модели. Попробуйте повторить запрос позже"
)
